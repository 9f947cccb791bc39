// Command antcalctl is a terminal client for the calendar API. It keeps the
// login session in a local file, so separate invocations share the account.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/example/antcal/internal/client"
)

const defaultServerURL = "http://localhost:5000"

func main() {
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return errors.New("a command is required")
	}

	api := client.New(serverURL(), client.WithSessionPath(sessionPath()))
	reader := bufio.NewReader(in)

	switch args[0] {
	case "register":
		return runRegister(ctx, api, reader, out)
	case "login":
		return runLogin(ctx, api, reader, out)
	case "logout":
		if err := api.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "logged out")
		return nil
	case "whoami":
		user, ok := api.CurrentUser()
		if !ok {
			return errors.New("not logged in")
		}
		fmt.Fprintf(out, "%s <%s> (user %s)\n", user.Username, user.Email, user.UserNum)
		return nil
	case "calendars":
		return runCalendars(ctx, api, args[1:], reader, out)
	case "events":
		return runEvents(ctx, api, args[1:], reader, out)
	case "posts":
		return runPosts(ctx, api, args[1:], reader, out)
	case "friends":
		return runFriends(ctx, api, args[1:], out)
	case "invite":
		return runInvite(ctx, api, args[1:], reader, out)
	case "notifications":
		return runNotifications(ctx, api, args[1:], out)
	case "preview":
		return runPreview(ctx, api, args[1:], out)
	case "export":
		return runExport(ctx, api, args[1:], out)
	case "health":
		if err := api.Health(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "server is healthy")
		return nil
	default:
		usage(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(out io.Writer) {
	fmt.Fprintln(out, `usage: antcalctl <command> [args]

commands:
  register                       create an account
  login                          log in and persist the session
  logout                         log out and drop the session
  whoami                         show the logged-in user
  calendars list                 list your calendars
  calendars create               create a calendar
  calendars delete <calendarID>  delete a calendar and its events
  events list <calendarID>       list a calendar's events
  events all                     list your events across calendars
  events create <calendarID>     create an event
  events delete <eventID>        delete an event
  posts list <calendarID>        list a calendar's community posts
  posts create <calendarID>      write a community post
  friends list                   list your accepted friends
  friends request <userNum>      send a friend request
  friends respond <requestID> <accepted|declined>
                                 answer a friend request
  invite <calendarID>            invite a user to a calendar by email
  notifications list             list your pending invitations
  notifications respond <shareID> <accepted|declined>
                                 answer an invitation
  preview <calendarID>           ask the assistant for an event suggestion
  export <calendarID>            print the calendar as iCalendar data
  health                         check the server`)
}

func serverURL() string {
	if url := os.Getenv("ANTCAL_SERVER"); url != "" {
		return url
	}
	return defaultServerURL
}

func sessionPath() string {
	if path := os.Getenv("ANTCAL_SESSION"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".antcal-session.json"
	}
	return filepath.Join(home, ".antcal", "session.json")
}

func runRegister(ctx context.Context, api *client.Client, reader *bufio.Reader, out io.Writer) error {
	email, err := promptLine(reader, "Email", out)
	if err != nil {
		return err
	}
	username, err := promptLine(reader, "Username", out)
	if err != nil {
		return err
	}
	phone, err := promptLine(reader, "Phone", out)
	if err != nil {
		return err
	}
	password, err := promptPassword(out)
	if err != nil {
		return err
	}

	if err := api.Register(ctx, email, password, username, phone); err != nil {
		return err
	}
	fmt.Fprintln(out, "account created; run `antcalctl login` to sign in")
	return nil
}

func runLogin(ctx context.Context, api *client.Client, reader *bufio.Reader, out io.Writer) error {
	email, err := promptLine(reader, "Email", out)
	if err != nil {
		return err
	}
	password, err := promptPassword(out)
	if err != nil {
		return err
	}

	user, err := api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "logged in as %s <%s>\n", user.Username, user.Email)
	return nil
}

func requireUser(api *client.Client) (client.User, error) {
	user, ok := api.CurrentUser()
	if !ok {
		return client.User{}, errors.New("not logged in; run `antcalctl login` first")
	}
	return user, nil
}

func runCalendars(ctx context.Context, api *client.Client, args []string, reader *bufio.Reader, out io.Writer) error {
	user, err := requireUser(api)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		calendars, err := api.ListCalendars(ctx, user.UserNum)
		if err != nil {
			return err
		}
		if len(calendars) == 0 {
			fmt.Fprintln(out, "no calendars")
			return nil
		}
		for _, calendar := range calendars {
			fmt.Fprintf(out, "%s  %s (%s)\n", calendar.ID, calendar.Name, calendar.Purpose)
		}
		return nil
	case "create":
		name, err := promptLine(reader, "Name", out)
		if err != nil {
			return err
		}
		purpose, err := promptLine(reader, "Purpose", out)
		if err != nil {
			return err
		}
		color, err := promptLine(reader, "Color", out)
		if err != nil {
			return err
		}
		calendarID, err := api.CreateCalendar(ctx, client.Calendar{
			Name: name, Purpose: purpose, Color: color, UserNum: user.UserNum,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "created calendar", calendarID)
		return nil
	case "delete":
		if len(args) < 2 {
			return errors.New("usage: antcalctl calendars delete <calendarID>")
		}
		if err := api.DeleteCalendar(ctx, args[1], user.UserNum); err != nil {
			return err
		}
		fmt.Fprintln(out, "deleted calendar", args[1])
		return nil
	default:
		return fmt.Errorf("unknown calendars subcommand %q", args[0])
	}
}

func runEvents(ctx context.Context, api *client.Client, args []string, reader *bufio.Reader, out io.Writer) error {
	user, err := requireUser(api)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("usage: antcalctl events <list|all|create|delete> ...")
	}

	switch args[0] {
	case "list":
		if len(args) < 2 {
			return errors.New("usage: antcalctl events list <calendarID>")
		}
		events, err := api.ListEvents(ctx, args[1], user.UserNum)
		if err != nil {
			return err
		}
		printEvents(out, events)
		return nil
	case "all":
		events, err := api.ListUserEvents(ctx, user.UserNum)
		if err != nil {
			return err
		}
		printEvents(out, events)
		return nil
	case "create":
		if len(args) < 2 {
			return errors.New("usage: antcalctl events create <calendarID>")
		}
		event := client.Event{CalendarID: args[1], UserNum: user.UserNum}
		if event.Title, err = promptLine(reader, "Title", out); err != nil {
			return err
		}
		if event.Content, err = promptLine(reader, "Content", out); err != nil {
			return err
		}
		if event.StartDate, err = promptLine(reader, "Start date (YYYY-MM-DD)", out); err != nil {
			return err
		}
		if event.EndDate, err = promptLine(reader, "End date (YYYY-MM-DD)", out); err != nil {
			return err
		}
		if event.StartTime, err = promptLine(reader, "Start time (HH:MM, empty for all-day)", out); err != nil {
			return err
		}
		if event.EndTime, err = promptLine(reader, "End time (HH:MM, empty for all-day)", out); err != nil {
			return err
		}
		if event.Color, err = promptLine(reader, "Color", out); err != nil {
			return err
		}
		eventID, err := api.CreateEvent(ctx, event)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "created event", eventID)
		return nil
	case "delete":
		if len(args) < 2 {
			return errors.New("usage: antcalctl events delete <eventID>")
		}
		if err := api.DeleteEvent(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(out, "deleted event", args[1])
		return nil
	default:
		return fmt.Errorf("unknown events subcommand %q", args[0])
	}
}

func printEvents(out io.Writer, events []client.Event) {
	if len(events) == 0 {
		fmt.Fprintln(out, "no events")
		return
	}
	for _, event := range events {
		span := event.StartDate
		if event.StartTime != "" {
			span += " " + event.StartTime
		}
		fmt.Fprintf(out, "%s  %s  %s\n", event.ID, span, event.Title)
	}
}

func runPosts(ctx context.Context, api *client.Client, args []string, reader *bufio.Reader, out io.Writer) error {
	user, err := requireUser(api)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("usage: antcalctl posts <list|create> <calendarID>")
	}

	switch args[0] {
	case "list":
		posts, err := api.ListPosts(ctx, args[1])
		if err != nil {
			return err
		}
		if len(posts) == 0 {
			fmt.Fprintln(out, "no posts")
			return nil
		}
		for _, post := range posts {
			fmt.Fprintf(out, "%s  [%s] %s (%s)\n", post.PostNum, post.UserName, post.Title, post.CreatedAt)
			comments, err := api.ListComments(ctx, post.PostNum)
			if err != nil {
				return err
			}
			for _, comment := range comments {
				fmt.Fprintf(out, "    %s: %s\n", comment.UserName, comment.Content)
			}
		}
		return nil
	case "create":
		title, err := promptLine(reader, "Title", out)
		if err != nil {
			return err
		}
		content, err := promptLine(reader, "Content", out)
		if err != nil {
			return err
		}
		postNum, err := api.CreatePost(ctx, client.Post{
			UserID: user.ID, CalendarNum: args[1], Title: title, Content: content,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "created post", postNum)
		return nil
	default:
		return fmt.Errorf("unknown posts subcommand %q", args[0])
	}
}

func runFriends(ctx context.Context, api *client.Client, args []string, out io.Writer) error {
	user, err := requireUser(api)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		friends, err := api.ListFriends(ctx, user.UserNum)
		if err != nil {
			return err
		}
		if len(friends) == 0 {
			fmt.Fprintln(out, "no friends yet")
			return nil
		}
		for _, friend := range friends {
			fmt.Fprintf(out, "%s  %s <%s>\n", friend.UserNum, friend.Username, friend.Email)
		}
		return nil
	case "request":
		if len(args) < 2 {
			return errors.New("usage: antcalctl friends request <userNum>")
		}
		if err := api.SendFriendRequest(ctx, user.UserNum, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(out, "friend request sent to", args[1])
		return nil
	case "respond":
		if len(args) < 3 {
			return errors.New("usage: antcalctl friends respond <requestID> <accepted|declined>")
		}
		if err := api.RespondFriendRequest(ctx, args[1], args[2]); err != nil {
			return err
		}
		fmt.Fprintln(out, "friend request", args[2])
		return nil
	default:
		return fmt.Errorf("unknown friends subcommand %q", args[0])
	}
}

func runInvite(ctx context.Context, api *client.Client, args []string, reader *bufio.Reader, out io.Writer) error {
	user, err := requireUser(api)
	if err != nil {
		return err
	}
	if len(args) < 1 {
		return errors.New("usage: antcalctl invite <calendarID>")
	}

	email, err := promptLine(reader, "Invitee email", out)
	if err != nil {
		return err
	}
	role, err := promptLine(reader, "Role", out)
	if err != nil {
		return err
	}
	if err := api.InviteToCalendar(ctx, args[0], user.UserNum, email, role); err != nil {
		return err
	}
	fmt.Fprintln(out, "invitation sent to", email)
	return nil
}

func runNotifications(ctx context.Context, api *client.Client, args []string, out io.Writer) error {
	user, err := requireUser(api)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		notifications, err := api.ListNotifications(ctx, user.UserNum)
		if err != nil {
			return err
		}
		if len(notifications) == 0 {
			fmt.Fprintln(out, "no pending invitations")
			return nil
		}
		for _, n := range notifications {
			fmt.Fprintf(out, "%s  %s invited you to %s as %s (%s)\n",
				n.ShareID, n.InviterName, n.CalendarName, n.Role, n.CreatedAt)
		}
		return nil
	case "respond":
		if len(args) < 3 {
			return errors.New("usage: antcalctl notifications respond <shareID> <accepted|declined>")
		}
		if err := api.RespondNotification(ctx, args[1], args[2]); err != nil {
			return err
		}
		fmt.Fprintln(out, "invitation", args[2])
		return nil
	default:
		return fmt.Errorf("unknown notifications subcommand %q", args[0])
	}
}

func runPreview(ctx context.Context, api *client.Client, args []string, out io.Writer) error {
	user, err := requireUser(api)
	if err != nil {
		return err
	}
	if len(args) < 1 {
		return errors.New("usage: antcalctl preview <calendarID>")
	}

	suggestion, err := api.PreviewEvent(ctx, user.UserNum, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "suggestion: %s on %s %s-%s\n%s\n",
		suggestion.Title, suggestion.StartDate, suggestion.StartTime, suggestion.EndTime, suggestion.Content)
	return nil
}

func runExport(ctx context.Context, api *client.Client, args []string, out io.Writer) error {
	user, err := requireUser(api)
	if err != nil {
		return err
	}
	if len(args) < 1 {
		return errors.New("usage: antcalctl export <calendarID>")
	}

	document, err := api.ExportICS(ctx, args[0], user.UserNum)
	if err != nil {
		return err
	}
	fmt.Fprint(out, document)
	return nil
}
