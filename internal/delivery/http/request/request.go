package request

import "github.com/user/listings-service/internal/entity"

// ContactRequest is the body of POST /contact.
type ContactRequest struct {
	Regnr   string `json:"regnr"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (r ContactRequest) ToEntity() entity.ContactRequest {
	return entity.ContactRequest{
		Regnr:   r.Regnr,
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Message: r.Message,
	}
}
