package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Loan Default Risk API
// @version         0.1.0
// @description     Loan application scoring, lending decisions, and the prediction ledger.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
