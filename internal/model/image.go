package model

// Image is one sample picture. BreedID is the breed it was searched under;
// the service does not send it back, callers fill it in.
type Image struct {
	ID      ID     `json:"id"`
	URL     string `json:"url"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	BreedID ID     `json:"-"`
}
