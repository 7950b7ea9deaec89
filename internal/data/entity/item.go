package entity

type Item struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	OwnerID     int64  `db:"owner_id"`
	Available   bool   `db:"available"`
	RequestID   *int64 `db:"request_id"`
}
