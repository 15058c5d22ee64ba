package request

// Literal values accepted by the Yes/No fields.
const (
	Yes = "Yes"
	No  = "No"
)

// Literal values accepted by content_source.
const (
	SourceGitHub = "GitHub"
	SourceNPM    = "npm.js"
	SourceBoth   = "Both"
)

// Record is a validated takedown request. Values are only produced by Parse and Load,
// so every field is present and non-blank and enum fields hold one of their literals.
// Control characters other than line breaks and tabs are stripped from free text
// before validation; enum fields are never rewritten.
type Record struct {
	From                        string   `json:"from" validate:"required" sanitize:"no_control"`
	CopyrightHolderOrAuthorized string   `json:"copyright_holder_or_authorized" validate:"required" sanitize:"no_control"`
	IsRevised                   string   `json:"is_revised" validate:"required;in:Yes,No"`
	ContentSource               string   `json:"content_source" validate:"required;in:GitHub,npm.js,Both"`
	Ownership                   string   `json:"ownership" validate:"required" sanitize:"no_control"`
	WorkDescription             string   `json:"work_description" validate:"required" sanitize:"no_control"`
	InfringingURLs              []string `json:"infringing_urls" validate:"required;no_blank_items" sanitize:"trim,no_control"`
	AccessControl               string   `json:"access_control" validate:"required;in:Yes,No"`
	ForksInformation            string   `json:"forks_information" validate:"required" sanitize:"no_control"`
	OpenSource                  string   `json:"open_source" validate:"required;in:Yes,No"`
	Solution                    string   `json:"solution" validate:"required" sanitize:"no_control"`
	Contact                     string   `json:"contact" validate:"required" sanitize:"no_control"`
	LegalName                   string   `json:"legal_name" validate:"required" sanitize:"no_control"`
	ContactEmail                string   `json:"contact_email" validate:"required" sanitize:"no_control"`
	Phone                       string   `json:"phone" validate:"required" sanitize:"no_control"`
}
