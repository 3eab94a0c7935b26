package controllers

import (
	"madrasa/database"
	"madrasa/services/completion"
	"madrasa/utils"
)

func gate() *completion.Gate {
	g := completion.NewGate(database.Database.Db)
	if utils.Certificates != nil {
		g.Documents = utils.Certificates
	}
	return g
}
