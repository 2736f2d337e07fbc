package booking

type CreateBookingRequest struct {
	PackageID       int64  `json:"package_id" validate:"required,gt=0"`
	TravelDate      string `json:"travel_date" validate:"required,datetime=2006-01-02"`
	Travelers       int    `json:"travelers" validate:"required,gte=1,lte=50"`
	SpecialRequests string `json:"special_requests" validate:"max=2000"`
}

type UpdateStatusRequest struct {
	Action string `json:"action" validate:"required,oneof=confirm cancel complete"`
}
