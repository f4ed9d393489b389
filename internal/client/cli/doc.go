// Package cli implements the interactive diary shell.
//
// The shell reads one command per line and dispatches against the local
// diary cache; the cache talks to the backend and keeps every view
// consistent.
//
// Commands:
//
//	help              — show available commands
//	list | l          — list diaries (honors the active date filter)
//	cal               — one entry per day, latest first within the day
//	filter <date>     — show only entries of <date> (YYYY-MM-DD)
//	filter off        — clear the date filter
//	show <id>         — load one diary with its comments
//	new <emotion> <text…>  — create an entry; emotion by name or id
//	edit <id> <text…> — replace an entry's content
//	del <id>          — delete an entry
//	like <id>         — toggle the like on an entry
//	refresh | r       — re-fetch the collection from the backend
//	exit | quit       — leave the program
package cli
