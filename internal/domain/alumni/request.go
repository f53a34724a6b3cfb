package alumni

import "encoding/json"

const (
	DefaultBatchSize = 100
	MaxBatchSize     = 1000
)

type ImportOptions struct {
	OverwriteExisting  bool `json:"overwriteExisting"`
	ValidateOnly       bool `json:"validateOnly"`
	BatchSize          int  `json:"batchSize" validate:"min=1,max=1000"`
	SkipInvalidRecords bool `json:"skipInvalidRecords"`
}

func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		BatchSize:          DefaultBatchSize,
		SkipInvalidRecords: true,
	}
}

// UnmarshalJSON keeps skipInvalidRecords true unless the payload sets it.
// An omitted batchSize stays 0 and is resolved by the import service.
func (o *ImportOptions) UnmarshalJSON(data []byte) error {
	type plain ImportOptions
	decoded := plain{SkipInvalidRecords: true}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*o = ImportOptions(decoded)
	return nil
}

type ImportRequest struct {
	ExternalSystemID string                 `json:"externalSystemId" validate:"required"`
	Alumni           []ExternalAlumniRecord `json:"alumni"`
	Options          ImportOptions          `json:"options"`
}

// UnmarshalJSON applies option defaults when the options object is omitted.
func (r *ImportRequest) UnmarshalJSON(data []byte) error {
	type plain ImportRequest
	decoded := plain{Options: ImportOptions{SkipInvalidRecords: true}}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*r = ImportRequest(decoded)
	return nil
}
