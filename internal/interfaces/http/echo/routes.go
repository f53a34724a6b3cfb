package echo

import e "github.com/labstack/echo/v4"

func RegisterRoutes(server *e.Echo, externalData *ExternalDataHandler, imports *ImportHandler, members *MemberHandler) {
	v1 := server.Group("/api/v1")

	if externalData != nil {
		external := v1.Group("/external-data")
		external.POST("/bulk-import", externalData.BulkImport)
		external.POST("/validate", externalData.Validate)
		external.POST("/sync-single", externalData.SyncSingle)
		external.PUT("/members/:memberId", externalData.UpdateMember)
		external.GET("/results/:batchId", externalData.GetResult)
		external.GET("/statistics", externalData.Statistics)
	}

	if imports != nil {
		v1.POST("/external-data/imports", imports.StartImport)
		v1.GET("/external-data/imports/:jobId", imports.GetImportJob)
	}

	if members != nil {
		v1.GET("/members/:memberId", members.GetMember)
	}
}
