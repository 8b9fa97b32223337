package render

import "staffdir/internal/directory/models"

// Card is the gallery view-model for one record. Index is carried explicitly
// and stamped on every element of the card fragment.
type Card struct {
	Index    int
	ImageURL string
	FullName string
	Email    string
	City     string
	State    string
}

// CardFromRecord builds the card view-model for p.
func CardFromRecord(p models.PersonRecord) Card {
	return Card{
		Index:    p.Index,
		ImageURL: p.ImageURL,
		FullName: p.FullName,
		Email:    p.Email,
		City:     p.City,
		State:    p.State,
	}
}

// ModalContent is the replaceable inner content of the detail modal.
type ModalContent struct {
	ImageURL  string
	FullName  string
	Email     string
	City      string
	Phone     string
	Address   string
	BirthDate string
}

// ModalContentFromRecord builds the detail content for p.
func ModalContentFromRecord(p models.PersonRecord) ModalContent {
	return ModalContent{
		ImageURL:  p.ImageURL,
		FullName:  p.FullName,
		Email:     p.Email,
		City:      p.City,
		Phone:     p.Phone,
		Address:   p.AddressLine(),
		BirthDate: p.BirthDate,
	}
}

// ModalShell is the long-lived modal frame. Navigation swaps Content and
// NavIndex; the shell itself survives until the modal is closed.
type ModalShell struct {
	NavIndex int
	Content  ModalContent
}
