// Package templates manages reusable presentation blocks for printed quotations.
package templates

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Section is one rich-text block with an optional image.
type Section struct {
	HTML     string `json:"html"`
	Markdown string `json:"markdown"`
	Image    string `json:"image"`
}

// Text prefers markdown and falls back to html.
func (s Section) Text() string {
	if strings.TrimSpace(s.Markdown) != "" {
		return s.Markdown
	}
	return s.HTML
}

type Template struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Cover        Section   `json:"cover"`
	ProposalNote Section   `json:"proposalNote"`
	ClosingNote  Section   `json:"closingNote"`
	AboutUs      Section   `json:"aboutUs"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Section names accepted by the image routes.
const (
	SectionCover        = "cover"
	SectionProposalNote = "proposalNote"
	SectionClosingNote  = "closingNote"
	SectionAboutUs      = "aboutUs"
)

// section returns a pointer to the named block, or nil for an unknown name.
func (t *Template) section(name string) *Section {
	switch name {
	case SectionCover:
		return &t.Cover
	case SectionProposalNote:
		return &t.ProposalNote
	case SectionClosingNote:
		return &t.ClosingNote
	case SectionAboutUs:
		return &t.AboutUs
	}
	return nil
}

func (t Template) images() []string {
	return []string{t.Cover.Image, t.ProposalNote.Image, t.ClosingNote.Image, t.AboutUs.Image}
}
