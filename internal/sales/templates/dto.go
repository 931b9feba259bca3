package templates

type SectionInput struct {
	HTML     *string `json:"html,omitempty"`
	Markdown *string `json:"markdown,omitempty"`
	Image    *string `json:"image,omitempty"`
}

type CreateTemplateRequest struct {
	Name         string       `json:"name" validate:"required,min=2,max=200"`
	Cover        SectionInput `json:"cover"`
	ProposalNote SectionInput `json:"proposalNote"`
	ClosingNote  SectionInput `json:"closingNote"`
	AboutUs      SectionInput `json:"aboutUs"`
}

type UpdateTemplateRequest struct {
	Name         *string       `json:"name,omitempty" validate:"omitnil,min=2,max=200"`
	Cover        *SectionInput `json:"cover,omitempty"`
	ProposalNote *SectionInput `json:"proposalNote,omitempty"`
	ClosingNote  *SectionInput `json:"closingNote,omitempty"`
	AboutUs      *SectionInput `json:"aboutUs,omitempty"`
}

func (in SectionInput) apply(s *Section) {
	if in.HTML != nil {
		s.HTML = *in.HTML
	}
	if in.Markdown != nil {
		s.Markdown = *in.Markdown
	}
	if in.Image != nil {
		s.Image = *in.Image
	}
}
