// Package browser is the interactive client: a read-eval-print loop over
// the account and site directories, run in-process against local storage.
//
// Commands:
//
//	help                 show available commands
//	register             create an account
//	login | logout       start or end a session
//	whoami               show the current user
//	passwd               change the current user's password
//	publish              create or overwrite one of your sites
//	open <id>            show a site, e.g. "open alice/My Site"
//	search [query]       list matching sites with snippets
//	accounts [filter]    list accounts (admin)
//	ban <username>       toggle a user's ban (admin)
//	exit | quit          leave the program
package browser
