package model

import "time"

type RoomType string

const (
	RoomTypeClassroom   RoomType = "classroom"
	RoomTypeLab         RoomType = "lab"
	RoomTypeLectureHall RoomType = "lecture_hall"
	RoomTypeStudy       RoomType = "study_room"
)

// Room is read-only to the booking engine; rooms are provisioned by the
// surrounding administration tooling.
type Room struct {
	RoomID            string    `json:"room_id" bson:"_id" validate:"required"`
	BuildingShortName string    `json:"building_short_name" bson:"building_short_name" validate:"required"`
	RoomNumber        string    `json:"room_number" bson:"room_number" validate:"required"`
	Capacity          int       `json:"capacity" bson:"capacity" validate:"required,min=1"`
	RoomType          RoomType  `json:"room_type" bson:"room_type" validate:"required,oneof=classroom lab lecture_hall study_room"`
	URL               string    `json:"url,omitempty" bson:"url,omitempty" validate:"omitempty,url"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

type Building struct {
	ShortName string `json:"short_name" bson:"_id" validate:"required"`
	Name      string `json:"name" bson:"name" validate:"required"`
}
