// moodctl drives the sync engine from the command line: recording moods,
// managing the account session, and syncing against a deployed mood API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/zhaolong57/mood-diary/internal/cache"
	"github.com/zhaolong57/mood-diary/internal/config"
	"github.com/zhaolong57/mood-diary/internal/logger"
	"github.com/zhaolong57/mood-diary/internal/model"
	"github.com/zhaolong57/mood-diary/internal/session"
	"github.com/zhaolong57/mood-diary/internal/syncer"
)

var moodEmojis = map[string]string{
	"excited": "😄",
	"happy":   "😊",
	"calm":    "😌",
	"tired":   "😫",
	"sad":     "😢",
	"angry":   "😠",
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: moodctl [-config file] <command> [args]

commands:
  register <username> <email> <password>   create an account and push local records
  login <username-or-email> <password>     sign in and pull the account's records
  logout                                   sign out (local records are kept)
  set <date> <mood> [note...]              record a mood for a day (moods: %s)
  rm <date>                                remove a day's record
  list                                     show all records
  sync                                     push every local record to the account
  whoami                                   show the current session
`, strings.Join(model.Moods, ", "))
	os.Exit(2)
}

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	cfg := config.Load(*configFile)
	cfg.Log.Console = false // keep structured logs out of CLI output
	logger.Init(cfg.Log)

	store, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		fatal("open local cache: %v", err)
	}
	defer store.Close()

	sess := session.NewManager(store, cfg.API.BaseURL)
	engine := syncer.NewEngine(store, sess, syncer.NewClient(cfg.API.BaseURL))

	ctx := context.Background()
	current, outcome, err := engine.Restore(ctx)
	if err != nil {
		fatal("restore: %v", err)
	}
	warnDegraded(outcome)

	switch args[0] {
	case "register":
		if len(args) != 4 {
			usage()
		}
		outcome, err := engine.Register(ctx, args[1], args[2], args[3])
		if err != nil {
			fatal("register: %v", err)
		}
		warnDegraded(outcome)
		fmt.Printf("registered as %s\n", args[1])

	case "login":
		if len(args) != 3 {
			usage()
		}
		outcome, err := engine.Login(ctx, args[1], args[2])
		if err != nil {
			fatal("login: %v", err)
		}
		warnDegraded(outcome)
		fmt.Printf("logged in as %s, %d records\n", args[1], len(engine.Snapshot()))

	case "logout":
		if err := engine.Logout(); err != nil {
			fatal("logout: %v", err)
		}
		fmt.Println("logged out")

	case "set":
		if len(args) < 3 {
			usage()
		}
		note := strings.Join(args[3:], " ")
		outcome, err := engine.Upsert(ctx, args[1], args[2], note)
		if err != nil {
			fatal("set: %v", err)
		}
		warnDegraded(outcome)

	case "rm":
		if len(args) != 2 {
			usage()
		}
		outcome, err := engine.Remove(ctx, args[1])
		if err != nil {
			fatal("rm: %v", err)
		}
		warnDegraded(outcome)

	case "list":
		snapshot := engine.Snapshot()
		dates := make([]string, 0, len(snapshot))
		for d := range snapshot {
			dates = append(dates, d)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(dates)))
		for _, d := range dates {
			entry := snapshot[d]
			fmt.Printf("%s  %s %-8s %s\n", d, moodEmojis[entry.Mood], entry.Mood, entry.Note)
		}

	case "sync":
		warnDegraded(engine.FullSync(ctx))
		fmt.Printf("synced %d records\n", len(engine.Snapshot()))

	case "whoami":
		if current.Authenticated() {
			fmt.Printf("%s <%s>\n", current.User.Username, current.User.Email)
		} else {
			fmt.Println("anonymous (local-only)")
		}

	default:
		usage()
	}
}

func warnDegraded(o syncer.Outcome) {
	if o.Degraded {
		fmt.Fprintf(os.Stderr, "warning: saved locally only (%s)\n", o.Reason)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
