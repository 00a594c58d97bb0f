package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/cardkeeper/internal/app"
	"github.com/dmitrijs2005/cardkeeper/internal/kv"
	"github.com/dmitrijs2005/cardkeeper/internal/ledger"
	"github.com/dmitrijs2005/cardkeeper/internal/models"
	"github.com/dmitrijs2005/cardkeeper/internal/services"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// Commands implements the shell commands on top of an app.App.
type Commands struct {
	app *app.App
}

var _ execIface = (*Commands)(nil)

func NewCommands(a *app.App) *Commands {
	return &Commands{app: a}
}

// Run starts the shell on in. The prompt is shown only when stdin is a
// terminal, so piped scripts produce clean output.
func Run(ctx context.Context, a *app.App, in io.Reader) {
	printlnFn("CardKeeper (type 'help' for commands)")

	interactive := isTerminal(int(os.Stdin.Fd()))
	prompt := func() string {
		if !interactive {
			return ""
		}
		if a.User.Anonymous() {
			return "ck> "
		}
		return fmt.Sprintf("ck %s> ", a.User.ID)
	}

	runREPL(ctx, NewCommands(a), prompt, bufio.NewScanner(in))
}

func (c *Commands) ShowSet(ctx context.Context, id string) error {
	v, err := c.app.Browse.LoadSet(ctx, id)
	if err != nil {
		return err
	}
	mark := ""
	if v.Downloaded {
		mark = " [offline]"
	}
	printlnFn(fmt.Sprintf("%s  %s  (%d/%d cards, from %s)%s",
		v.Set.ID, v.Set.Name, len(v.Cards), v.Set.CardCount.Total, v.Source, mark))
	for _, card := range v.Cards {
		printlnFn(fmt.Sprintf("  %-6s %-16s %s", card.LocalID, card.ID, card.Name))
	}
	return nil
}

func (c *Commands) ShowCard(ctx context.Context, id string) error {
	card, err := c.app.Catalog.GetCard(ctx, id)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("%s  %s  #%s  %s", card.ID, card.Name, card.Number, card.Set.Name))
	if card.HP > 0 {
		printlnFn(fmt.Sprintf("  HP %d  %s", card.HP, strings.Join(card.Types, "/")))
	}
	if card.Rarity != "" {
		printlnFn("  Rarity:", card.Rarity)
	}
	for _, a := range card.Attacks {
		printlnFn(fmt.Sprintf("  %s %s", a.Name, a.Damage))
	}
	return nil
}

// Download caches a set. A set that is already cached is left alone; use
// remove first to refresh it.
func (c *Commands) Download(ctx context.Context, id string) error {
	v, err := c.app.Browse.LoadSet(ctx, id)
	if err != nil {
		return err
	}
	if v.Downloaded {
		printlnFn("Already offline:", id)
		return nil
	}
	if _, err := c.app.Browse.ToggleDownload(ctx, v.Set, v.Cards); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Downloaded %s (%d cards)", id, len(v.Cards)))
	return nil
}

func (c *Commands) Remove(ctx context.Context, id string) error {
	if err := c.app.Cache.RemoveSet(ctx, id); err != nil {
		return err
	}
	printlnFn("Removed:", id)
	return nil
}

func (c *Commands) Offline(ctx context.Context) error {
	snaps, err := c.app.Browse.OfflineSets(ctx)
	if err != nil {
		return err
	}
	stray, err := c.app.Cache.Unindexed(ctx)
	if err != nil {
		return err
	}
	if len(snaps) == 0 && len(stray) == 0 {
		printlnFn("No sets downloaded")
		return nil
	}
	for _, s := range snaps {
		printlnFn(fmt.Sprintf("%s  %s  %d cards  %s", s.Set.ID, s.Set.Name, len(s.Cards), s.DownloadedAt.Format("2006-01-02 15:04")))
	}
	for _, id := range stray {
		printlnFn("Unindexed snapshot:", id)
	}
	return nil
}

func (c *Commands) Collections(ctx context.Context) error {
	list, err := c.app.Ledger.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printlnFn("No collections")
		return nil
	}
	for _, col := range list {
		printlnFn(fmt.Sprintf("%s  %s  (%d cards)", col.ID, col.Name, len(col.Cards)))
	}
	return nil
}

func (c *Commands) ShowCollection(ctx context.Context, id string) error {
	col, found, err := c.app.Ledger.Get(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		printlnFn("No such collection:", id)
		return nil
	}
	cards, err := c.app.Collections.Cards(ctx, id)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("%s  %s", col.ID, col.Name))
	if col.CoverImage != "" {
		printlnFn("  cover:", col.CoverImage)
	}
	for _, card := range cards {
		line := fmt.Sprintf("  %-16s %s", card.ID, card.Name)
		if tags := col.CardVariants[card.ID]; len(tags) > 0 {
			line += "  [" + strings.Join(tags, ", ") + "]"
		}
		printlnFn(line)
	}
	return nil
}

func (c *Commands) Create(ctx context.Context, name string) error {
	col, err := c.app.Ledger.Create(ctx, name, "")
	if err != nil {
		return err
	}
	printlnFn("Created collection", col.ID)
	return nil
}

func (c *Commands) CreateForSet(ctx context.Context, setID, name string) error {
	col, err := c.app.Browse.CreateCollectionWithDownload(ctx, name, setID, func(s services.Stage) {
		printlnFn(fmt.Sprintf("... %s", s))
	})
	if col != nil {
		printlnFn("Created collection", col.ID)
	}
	return err
}

func (c *Commands) Add(ctx context.Context, collectionID string, cardIDs []string) error {
	out, err := c.app.Ledger.AddCards(ctx, collectionID, cardIDs)
	return report(out, err, collectionID)
}

func (c *Commands) RemoveCard(ctx context.Context, collectionID, cardID string) error {
	out, err := c.app.Ledger.RemoveCard(ctx, collectionID, cardID)
	return report(out, err, collectionID)
}

func (c *Commands) Toggle(ctx context.Context, collectionID, cardID string) error {
	added, out, err := c.app.Collections.ToggleCard(ctx, collectionID, cardID)
	if err != nil || out == ledger.NotFound {
		return report(out, err, collectionID)
	}
	if added {
		printlnFn("Added", cardID)
	} else {
		printlnFn("Removed", cardID)
	}
	return nil
}

func (c *Commands) Variants(ctx context.Context, collectionID, cardID string, tags []string) error {
	known := models.KnownVariants()
	for _, tag := range tags {
		if !slices.Contains(known, tag) {
			printlnFn(fmt.Sprintf("Note: %q is not one of %s", tag, strings.Join(known, ", ")))
		}
	}
	out, err := c.app.Ledger.SetVariants(ctx, collectionID, cardID, tags)
	return report(out, err, collectionID+"/"+cardID)
}

func (c *Commands) Cover(ctx context.Context, collectionID, image string, style *models.CoverStyle) error {
	out, err := c.app.Ledger.SetCover(ctx, collectionID, image, style)
	return report(out, err, collectionID)
}

func (c *Commands) Delete(ctx context.Context, collectionID string) error {
	out, err := c.app.Ledger.Delete(ctx, collectionID)
	return report(out, err, collectionID)
}

// Keys lists the raw storage keys under prefix.
func (c *Commands) Keys(ctx context.Context, prefix string) error {
	keys, err := kv.ListKeys(ctx, c.app.Store, prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		printlnFn("No keys")
		return nil
	}
	for _, k := range keys {
		printlnFn(k)
	}
	return nil
}

func report(out ledger.Outcome, err error, target string) error {
	if err != nil {
		return err
	}
	switch out {
	case ledger.Applied:
		printlnFn("OK")
	case ledger.Unchanged:
		printlnFn("Nothing to change")
	case ledger.NotFound:
		printlnFn("Not found:", target)
	}
	return nil
}
