// Package assets embeds the default word files and the SQL migrations.
//
// public/ mirrors the layout expected by words.Source:
//
//	public/dictionary/{length}{letter}.txt
//	public/challenge/{id}.txt
//	public/challenge-count.txt
//
// sql/ holds migrations applied in lexical order at startup.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed public sql
var FS embed.FS

// Public returns the word files rooted at public/.
func Public() (fs.FS, error) {
	return fs.Sub(FS, "public")
}

// Migrations returns the SQL files rooted at sql/.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
