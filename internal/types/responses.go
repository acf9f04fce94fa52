package types

import "github.com/dogwatch-dev/dogwatch/internal/models"

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type BreedResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	APIID *int   `json:"api_id"`
}

type DogResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Age         *int             `json:"age"`
	Status      models.DogStatus `json:"status"`
	ImageURL    *string          `json:"image_url"`
	Description *string          `json:"description"`
	Weight      *string          `json:"weight"`
	Temperament *string          `json:"temperament"`
	UserID      uint             `json:"user_id"`
	BreedID     *uint            `json:"breed_id"`
	User        UserResponse     `json:"user"`
	Breed       *BreedResponse   `json:"breed"`
}

func NewUserResponse(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username}
}

func NewBreedResponse(b models.Breed) BreedResponse {
	return BreedResponse{ID: b.ID, Name: b.Name, APIID: b.APIID}
}

func NewBreedResponses(breeds []models.Breed) []BreedResponse {
	out := make([]BreedResponse, 0, len(breeds))
	for _, b := range breeds {
		out = append(out, NewBreedResponse(b))
	}
	return out
}

// NewDogResponse expects User and Breed to be preloaded.
func NewDogResponse(d models.Dog) DogResponse {
	resp := DogResponse{
		ID:          d.ID,
		Name:        d.Name,
		Age:         d.Age,
		Status:      d.Status,
		ImageURL:    d.ImageURL,
		Description: d.Description,
		Weight:      d.Weight,
		Temperament: d.Temperament,
		UserID:      d.UserID,
		BreedID:     d.BreedID,
		User:        NewUserResponse(d.User),
	}

	if d.Breed != nil {
		breed := NewBreedResponse(*d.Breed)
		resp.Breed = &breed
	}

	return resp
}

func NewDogResponses(dogs []models.Dog) []DogResponse {
	out := make([]DogResponse, 0, len(dogs))
	for _, d := range dogs {
		out = append(out, NewDogResponse(d))
	}
	return out
}
