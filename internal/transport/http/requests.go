package httptransport

import (
	"strings"

	"petitionsigner/internal/petition/models"
	dErrors "petitionsigner/pkg/domain-errors"
	"petitionsigner/pkg/platform/validation"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Root     string `json:"root,omitempty"`
}

func (r *loginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Root = strings.TrimSpace(r.Root)
}

func (r *loginRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "password is required")
	}
	if err := validation.CheckStringLength("email", r.Email, validation.MaxEmailLength); err != nil {
		return err
	}
	return validation.CheckStringLength("root", r.Root, validation.MaxRootLength)
}

type loginResponse struct {
	SessionID    string `json:"session_id"`
	CreatorID    string `json:"creator_id"`
	Email        string `json:"email"`
	TokenPresent bool   `json:"token_present"`
}

type parametersRequest struct {
	Parameters models.Parameters `json:"parameters"`
}

func (r *parametersRequest) Validate() error {
	if len(r.Parameters) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "parameters are required")
	}
	return validation.CheckParameters(r.Parameters)
}

type normalizeResponse struct {
	Parameters models.Normalized `json:"parameters"`
}

// templateRequest may be empty, in which case the petition template is ensured.
type templateRequest struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text,omitempty"`
}

func (r *templateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func (r *templateRequest) Validate() error {
	if r.Title != "" && strings.TrimSpace(r.Text) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "text is required when a title is supplied")
	}
	if err := validation.CheckStringLength("title", r.Title, validation.MaxTitleLength); err != nil {
		return err
	}
	return validation.CheckStringLength("text", r.Text, validation.MaxTemplateLength)
}

type templateResponse struct {
	TemplateID string `json:"template_id"`
}

// signRequest carries a signature produced by the browser wallet.
type signRequest struct {
	Account         string `json:"account"`
	Signature       string `json:"signature"`
	DeclaredAddress string `json:"declared_address,omitempty"`
}

func (r *signRequest) Normalize() {
	r.Account = strings.TrimSpace(r.Account)
	r.Signature = strings.TrimSpace(r.Signature)
	r.DeclaredAddress = strings.TrimSpace(r.DeclaredAddress)
}

func (r *signRequest) Validate() error {
	if err := validation.CheckStringLength("account", r.Account, validation.MaxAddressLength); err != nil {
		return err
	}
	if err := validation.CheckStringLength("declared_address", r.DeclaredAddress, validation.MaxAddressLength); err != nil {
		return err
	}
	return validation.CheckStringLength("signature", r.Signature, validation.MaxSignatureLen)
}
