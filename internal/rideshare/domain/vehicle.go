package domain

// Vehicle is a car registered by the authenticated user.
type Vehicle struct {
	ID             string `json:"_id"`
	Company        string `json:"company"`
	Model          string `json:"model"`
	PlateNumber    string `json:"carNumber"`
	Color          string `json:"color"`
	SeatsAvailable int    `json:"seatsAvailable"`
}

// VehicleInput holds the fields of a vehicle being registered.
type VehicleInput struct {
	Company        string `json:"company"`
	Model          string `json:"model"`
	PlateNumber    string `json:"carNumber"`
	Color          string `json:"color"`
	SeatsAvailable int    `json:"seatsAvailable"`
}
