// Command cardtoken issues a session token for cardkeeper's signed-in mode.
//
//	cardtoken -u alice [-ttl 720h] [-k secret]
//
// The secret defaults to CARDKEEPER_SESSION_SECRET, the variable cardkeeper
// itself reads to verify the token.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrijs2005/cardkeeper/internal/config"
	"github.com/dmitrijs2005/cardkeeper/internal/identity"
)

type secretEnv struct {
	SessionSecret string `env:"SESSION_SECRET"`
}

func main() {
	if err := run(os.Args[1:], os.Environ(), os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(args, environ []string, out io.Writer) error {
	var se secretEnv
	if err := env.ParseWithOptions(&se, env.Options{Prefix: config.EnvPrefix, Environment: env.ToMap(environ)}); err != nil {
		return err
	}

	fs := flag.NewFlagSet("cardtoken", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	userID := fs.String("u", "", "user id to sign in as")
	secret := fs.String("k", se.SessionSecret, "session signing secret")
	ttl := fs.Duration("ttl", 30*24*time.Hour, "token validity")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *userID == "" {
		return errors.New("user id is required (-u)")
	}
	if *secret == "" {
		return fmt.Errorf("secret is required (-k or %sSESSION_SECRET)", config.EnvPrefix)
	}
	if *ttl <= 0 {
		return errors.New("ttl must be positive")
	}

	tok, err := identity.GenerateToken(*userID, []byte(*secret), *ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, tok)
	return err
}
