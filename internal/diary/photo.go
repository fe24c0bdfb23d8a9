package diary

import "time"

type ProgressPhoto struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	URL         string    `json:"url"`
	Caption     *string   `json:"caption"`
	Description *string   `json:"description"`
	Date        time.Time `json:"date"`
}
