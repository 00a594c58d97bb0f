package cli

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/cardkeeper/internal/models"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *Commands
// implements it; tests use a recording stub.
type execIface interface {
	ShowSet(ctx context.Context, id string) error
	ShowCard(ctx context.Context, id string) error
	Download(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	Offline(ctx context.Context) error
	Collections(ctx context.Context) error
	ShowCollection(ctx context.Context, id string) error
	Create(ctx context.Context, name string) error
	CreateForSet(ctx context.Context, setID, name string) error
	Add(ctx context.Context, collectionID string, cardIDs []string) error
	RemoveCard(ctx context.Context, collectionID, cardID string) error
	Toggle(ctx context.Context, collectionID, cardID string) error
	Variants(ctx context.Context, collectionID, cardID string, tags []string) error
	Cover(ctx context.Context, collectionID, image string, style *models.CoverStyle) error
	Delete(ctx context.Context, collectionID string) error
	Keys(ctx context.Context, prefix string) error
}

const helpText = "Available commands: set, card, download, remove, offline, collections, show, create, new, add, rm, toggle, variants, cover, delete, keys, exit"

// runREPL reads commands line by line and dispatches them to a until EOF or
// "exit"/"quit". prompt returns the prompt to print before each line, or ""
// for none. Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, prompt func() string, scanner *bufio.Scanner) {
	for {
		if p := prompt(); p != "" {
			printlnFn(p)
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn("Error:", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		printlnFn(helpText)
		return nil

	case "set":
		if len(args) != 1 {
			return usage("set <id>")
		}
		return a.ShowSet(ctx, args[0])

	case "card":
		if len(args) != 1 {
			return usage("card <id>")
		}
		return a.ShowCard(ctx, args[0])

	case "download":
		if len(args) != 1 {
			return usage("download <id>")
		}
		return a.Download(ctx, args[0])

	case "remove":
		if len(args) != 1 {
			return usage("remove <id>")
		}
		return a.Remove(ctx, args[0])

	case "offline":
		return a.Offline(ctx)

	case "collections", "ls":
		return a.Collections(ctx)

	case "show":
		if len(args) != 1 {
			return usage("show <cid>")
		}
		return a.ShowCollection(ctx, args[0])

	case "create":
		if len(args) == 0 {
			return usage("create <name>")
		}
		return a.Create(ctx, strings.Join(args, " "))

	case "new":
		if len(args) == 0 {
			return usage("new <setId> [name]")
		}
		return a.CreateForSet(ctx, args[0], strings.Join(args[1:], " "))

	case "add":
		if len(args) < 2 {
			return usage("add <cid> <card...>")
		}
		return a.Add(ctx, args[0], args[1:])

	case "rm":
		if len(args) != 2 {
			return usage("rm <cid> <card>")
		}
		return a.RemoveCard(ctx, args[0], args[1])

	case "toggle":
		if len(args) != 2 {
			return usage("toggle <cid> <card>")
		}
		return a.Toggle(ctx, args[0], args[1])

	case "variants":
		if len(args) < 2 {
			return usage("variants <cid> <card> [tags...]")
		}
		return a.Variants(ctx, args[0], args[1], args[2:])

	case "cover":
		if len(args) != 2 && len(args) != 5 {
			return usage("cover <cid> <img> [scale offsetX offsetY]")
		}
		var style *models.CoverStyle
		if len(args) == 5 {
			s, err := parseStyle(args[2:])
			if err != nil {
				return err
			}
			style = s
		}
		return a.Cover(ctx, args[0], args[1], style)

	case "delete":
		if len(args) != 1 {
			return usage("delete <cid>")
		}
		return a.Delete(ctx, args[0])

	case "keys":
		if len(args) > 1 {
			return usage("keys [prefix]")
		}
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		return a.Keys(ctx, prefix)

	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}

func usage(s string) error {
	return fmt.Errorf("usage: %s", s)
}

func parseStyle(args []string) (*models.CoverStyle, error) {
	var v [3]float64
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("invalid cover style value %q", a)
		}
		v[i] = f
	}
	return &models.CoverStyle{Scale: v[0], OffsetX: v[1], OffsetY: v[2]}, nil
}
