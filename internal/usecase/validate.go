package usecase

import (
	"ticket-booking/internal/data/entity"
	"ticket-booking/internal/dto/request"
	"ticket-booking/pkg/utils"
)

func validateRequest(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return entity.NewValidationError(errs)
	}
	return nil
}

// normalizeContact trims blanks to nil and rewrites phone as E.164.
func normalizeContact(c request.ContactInfo) (entity.Contact, error) {
	contact := entity.Contact{
		UserName: utils.TrimOptional(c.UserName),
		Email:    utils.TrimOptional(c.Email),
	}

	if phone := utils.TrimOptional(c.Phone); phone != nil {
		e164, err := utils.NormalizePhone(*phone)
		if err != nil {
			return contact, entity.NewValidationError(map[string]string{"phone": "Invalid phone number"})
		}
		contact.Phone = &e164
	}

	return contact, nil
}
