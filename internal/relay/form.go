package relay

import (
	"net/url"
	"strings"
)

// Role names the purpose of a form field. Each form declares its mapping up
// front instead of guessing from input names at submit time.
type Role string

const (
	RoleName    Role = "name"
	RoleEmail   Role = "email"
	RolePhone   Role = "phone"
	RoleMessage Role = "message"
	RoleSource  Role = "source"
)

// Form is an explicit field-name-to-role mapping for one form widget.
type Form struct {
	Name string
	// Fields maps submitted input names to their roles.
	Fields map[string]Role
	// QuickContact forms carry at most an email and one more field and get
	// a distinct subject line.
	QuickContact bool
}

// FieldSet holds the classified values of one submission.
type FieldSet struct {
	Name    string
	Email   string
	Phone   string
	Message string
	Source  string
}

// Collect extracts the declared fields from posted values. Unknown inputs
// are ignored; the first value per field wins.
func (f Form) Collect(values url.Values) FieldSet {
	var fs FieldSet
	for input, role := range f.Fields {
		v := strings.TrimSpace(values.Get(input))
		if v == "" {
			continue
		}
		switch role {
		case RoleName:
			fs.Name = v
		case RoleEmail:
			fs.Email = v
		case RolePhone:
			fs.Phone = v
		case RoleMessage:
			fs.Message = v
		case RoleSource:
			fs.Source = v
		}
	}
	return fs
}

// Subject builds the subject line for a submission from this form.
func (f Form) Subject(pageTitle string) string {
	if f.QuickContact {
		return "Quick Contact from " + pageTitle
	}
	return "Contact Form from " + pageTitle
}

// ContactForm is the full contact form definition used across the site.
var ContactForm = Form{
	Name: "contact",
	Fields: map[string]Role{
		"name":    RoleName,
		"email":   RoleEmail,
		"phone":   RolePhone,
		"message": RoleMessage,
		"source":  RoleSource,
	},
}

// QuickContactForm is the two-field sidebar widget.
var QuickContactForm = Form{
	Name: "quick-contact",
	Fields: map[string]Role{
		"name":  RoleName,
		"email": RoleEmail,
	},
	QuickContact: true,
}
