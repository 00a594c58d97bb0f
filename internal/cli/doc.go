// Package cli is the interactive shell over the card catalog and the
// collection ledger.
//
// Commands:
//
//	set <id>                         open a set (network, then offline copy)
//	card <id>                        show card details
//	download <id> | remove <id>      cache or drop a set for offline use
//	offline                          list cached sets and unindexed snapshots
//	collections                      list collections
//	show <cid>                       list the cards of a collection
//	create <name...>                 create an empty collection
//	new <setId> [name...]            create a collection and cache its set
//	add <cid> <card...>              add cards
//	rm <cid> <card>                  remove a card and its variant tags
//	toggle <cid> <card>              add or remove a single card
//	variants <cid> <card> [tags...]  replace variant tags (none clears them)
//	cover <cid> <img> [scale x y]    set the cover image and optional zoom/pan
//	delete <cid>                     delete a collection
//	keys [prefix]                    list raw storage keys
//	help | exit | quit
package cli
