package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"noticeboard/backend/internal/board"
	"noticeboard/backend/internal/client"
	"noticeboard/backend/internal/config"
	"noticeboard/backend/internal/forms"
	"noticeboard/backend/internal/localization"
	"noticeboard/backend/internal/logger"
	"noticeboard/backend/internal/models"

	"go.uber.org/zap"
)

const help = `Commands:
  feed                                  show the feed
  like <n>                              like or unlike post n
  vote <n> <option>                     vote in poll n
  query <text>                          post a query
  poll <text> | <question> | <a> | <b>  create a poll with 2-4 options
  report <category> <urgency> <text>    send an anonymous submission
  tab <feed|anonymous|admin>            switch tab
  admin                                 show submissions (admins)
  advance <id>                          next review step (admins)
  status <id> <new|reviewed|resolved>   set status (admins)
  signout
  quit`

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to read config: %v", err)
	}
	// Термінал зайнятий діалогом, тож пишемо лише попередження
	zl, err := logger.New("warn")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	loc, err := localization.Default()
	if err != nil {
		log.Fatalf("failed to load translations: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend := client.NewHTTPBackend(cfg.BoardAPIURL, cfg.BoardToken, zl)
	if backend.Token() == "" {
		name := ""
		if len(os.Args) > 1 {
			name = strings.Join(os.Args[1:], " ")
		}
		viewer, err := backend.SignIn(ctx, name)
		if err != nil {
			log.Fatalf("failed to sign in: %v", err)
		}
		fmt.Printf("Signed in as %s. Set BOARD_TOKEN=%s to reuse this viewer.\n", viewer.DisplayName(), backend.Token())
	}

	ctrl := board.NewController(backend, loc, cfg.Language, printNotice, zl)
	ctrl.AllowVoteRevision = cfg.AllowVoteRevision
	if err := ctrl.Start(ctx); err != nil {
		log.Fatalf("failed to load the board: %v", err)
	}
	go func() {
		if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zl.Warn("change stream stopped", zap.Error(err))
		}
	}()

	printFeed(ctrl.Feed())
	fmt.Println(help)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if quit := execute(ctx, ctrl, strings.TrimSpace(line)); quit {
				return
			}
		}
	}
}

func printNotice(n board.Notice) {
	mark := "*"
	if n.Destructive {
		mark = "!"
	}
	fmt.Printf("\n%s %s: %s\n", mark, n.Title, n.Description)
}

// postID maps the 1-based feed position the viewer typed to a post ID.
func postID(ctrl *board.Controller, arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	views := ctrl.Feed()
	if err != nil || n < 1 || n > len(views) {
		return "", fmt.Errorf("no post %q", arg)
	}
	return views[n-1].ID, nil
}

// execute runs one command line and reports whether the client should exit.
// Action errors are already shown as notices by the controller.
func execute(ctx context.Context, ctrl *board.Controller, line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	args := strings.Fields(rest)

	switch cmd {
	case "":
	case "help":
		fmt.Println(help)
	case "quit", "exit":
		return true
	case "feed":
		printFeed(ctrl.Feed())
	case "like":
		if len(args) != 1 {
			fmt.Println("usage: like <n>")
			return false
		}
		id, err := postID(ctrl, args[0])
		if err != nil {
			fmt.Println(err)
			return false
		}
		if ctrl.ToggleLike(ctx, id) == nil {
			printFeed(ctrl.Feed())
		}
	case "vote":
		if len(args) != 2 {
			fmt.Println("usage: vote <n> <option>")
			return false
		}
		id, err := postID(ctrl, args[0])
		if err != nil {
			fmt.Println(err)
			return false
		}
		optionID, err := optionAt(ctrl, id, args[1])
		if err != nil {
			fmt.Println(err)
			return false
		}
		if ctrl.Vote(ctx, id, optionID) == nil {
			printFeed(ctrl.Feed())
		}
	case "query", "post":
		composeQuery(ctx, ctrl, rest)
	case "poll":
		composePoll(ctx, ctrl, rest)
	case "report":
		report(ctx, ctrl, args)
	case "tab":
		if len(args) == 1 {
			ctrl.SelectTab(board.Tab(args[0]))
		}
		fmt.Printf("tabs: %v, current: %s\n", ctrl.State().Tabs(), ctrl.State().Tab)
	case "admin", "triage":
		view, err := ctrl.Triage()
		if err != nil {
			fmt.Println(err)
			return false
		}
		printTriage(view)
	case "advance":
		if len(args) == 1 {
			ctrl.AdvanceSubmission(ctx, args[0])
		}
	case "status":
		if len(args) == 2 {
			ctrl.UpdateSubmissionStatus(ctx, args[0], models.Status(args[1]))
		}
	case "signout":
		if ctrl.SignOut(ctx) == nil {
			return true
		}
	default:
		fmt.Printf("unknown command %q, type help\n", cmd)
	}
	return false
}

func optionAt(ctrl *board.Controller, postID, arg string) (string, error) {
	it, ok := ctrl.State().Item(postID)
	if !ok || it.Poll == nil {
		return "", models.ErrNotAPoll
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(it.Poll.Options) {
		return "", fmt.Errorf("no option %q", arg)
	}
	return it.Poll.Options[n-1].ID, nil
}

func composeQuery(ctx context.Context, ctrl *board.Controller, text string) {
	var draft *forms.PostDraft
	c := forms.NewPostComposer(func(d forms.PostDraft) { draft = &d })
	c.Content = text
	if err := c.Submit(); err != nil {
		fmt.Println(err)
		return
	}
	ctrl.CreatePost(ctx, *draft)
}

func composePoll(ctx context.Context, ctrl *board.Controller, rest string) {
	parts := strings.Split(rest, "|")
	if len(parts) < 2 {
		fmt.Println("usage: poll <text> | <question> | <a> | <b>")
		return
	}

	var draft *forms.PostDraft
	c := forms.NewPostComposer(func(d forms.PostDraft) { draft = &d })
	c.SetKind(models.PostPoll)
	c.Content = parts[0]
	c.Question = parts[1]
	for i, opt := range parts[2:] {
		if i >= len(c.Options()) && !c.AddOption() {
			fmt.Println("a poll has at most 4 options")
			return
		}
		c.SetOption(i, opt)
	}
	if err := c.Submit(); err != nil {
		fmt.Println(err)
		return
	}
	ctrl.CreatePost(ctx, *draft)
}

func report(ctx context.Context, ctrl *board.Controller, args []string) {
	if len(args) < 3 {
		fmt.Println("usage: report <category> <urgency> <text>")
		for _, o := range forms.CategoryOptions() {
			fmt.Printf("  %-14s %s\n", o.Value, o.Label)
		}
		return
	}

	var sub *models.NewSubmission
	f := forms.NewSubmissionForm(func(s models.NewSubmission) { sub = &s })
	f.Category = models.Category(args[0])
	f.Urgency = models.Urgency(args[1])
	f.Content = strings.Join(args[2:], " ")
	fmt.Println(f.Counter())
	if err := f.Submit(); err != nil {
		fmt.Println(err)
		return
	}
	ctrl.SubmitAnonymous(ctx, *sub)
}
