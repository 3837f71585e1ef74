package models

type User struct {
	ID     string
	Email  string
	Name   string
	Active bool
	Admin  bool
}
