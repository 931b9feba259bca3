package companies

import "github.com/quoteroom/quoteroom/internal/masterdata/shared"

// CompanyInput is a partial profile; nil fields keep their stored value.
type CompanyInput struct {
	Name       *string         `json:"name"`
	Address    *string         `json:"address"`
	Phone      *string         `json:"phone"`
	Email      *string         `json:"email"`
	Website    *string         `json:"website"`
	TaxNumber  *string         `json:"taxNumber"`
	RemoveLogo shared.FlexBool `json:"removeLogo"`
}
