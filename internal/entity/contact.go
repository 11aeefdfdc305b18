package entity

// ContactRequest is a contact-form submission about a specific car.
type ContactRequest struct {
	Regnr   string `json:"regnr"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// MailMessage is a plain-text email handed to a Mailer.
type MailMessage struct {
	To      []string
	Subject string
	Text    string
}
