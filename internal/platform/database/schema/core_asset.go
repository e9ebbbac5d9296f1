package schema

// CoreAssetTable represents the 'core.asset' table
type CoreAssetTable struct {
	Table     string
	Name      string
	Data      string
	MimeType  string
	SizeBytes string
	SHA256    string
	CreatedAt string
	UpdatedAt string
}

// CoreAsset is the schema definition for core.asset
var CoreAsset = CoreAssetTable{
	Table:     "core.asset",
	Name:      "name",
	Data:      "data",
	MimeType:  "mimetype",
	SizeBytes: "sizebytes",
	SHA256:    "sha256",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns the metadata columns, excluding the image payload.
func (t CoreAssetTable) Columns() []string {
	return []string{
		t.Name, t.MimeType, t.SizeBytes, t.SHA256, t.CreatedAt, t.UpdatedAt,
	}
}
