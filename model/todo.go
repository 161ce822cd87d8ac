package model

// Todo is a single task record. ID is assigned by the store on insert.
type Todo struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string `gorm:"type:text" json:"title"`
	Completed bool   `gorm:"not null;default:false" json:"completed,omitempty"`
}

// TableName pins the table name so both stores agree on it
func (Todo) TableName() string {
	return "todos"
}
