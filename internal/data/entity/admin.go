package entity

type Admin struct {
	Base
	Email        string `db:"email"`
	Name         string `db:"name"`
	PasswordHash string `db:"password"`
}
