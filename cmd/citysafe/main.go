package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"citysafe/internal/api"
	"citysafe/internal/assistant"
	"citysafe/internal/geo"
	"citysafe/internal/mapview"
	"citysafe/internal/notify"
	"citysafe/internal/report"
	"citysafe/internal/session"
	"citysafe/pkg/cache"
	"citysafe/pkg/config"
	"citysafe/pkg/kvstore"
	"citysafe/pkg/logger"
	"citysafe/pkg/scheduler"
)

const usage = `citysafe <command> [flags]

Commands:
  register        create an account and sign in
  login           sign in with email and password
  logout          sign out and clear the saved token
  whoami          show the signed-in user
  submit          file an incident report
  reports         list reports (yours with -mine)
  map             show report markers around you
  chat            talk to the safety assistant
  notifications   list|read|read-all|delete|clear|settings
`

// app bundles everything a subcommand can touch.
type app struct {
	cfg    *config.Config
	kv     *kvstore.Store
	client *api.Client
	sess   *session.Store
	notif  *notify.Store
}

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}

	if err := config.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	cfg := config.GlobalConfig
	logger.Init(cfg.Log)
	defer logger.Sync()

	kv, err := kvstore.Open(cfg.DeviceStorePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open device store:", err)
		os.Exit(1)
	}
	defer kv.Close()

	a := &app{
		cfg:    cfg,
		kv:     kv,
		client: api.New(cfg.APIBaseURL, api.NewDeviceTokenStore(kv)),
		sess:   nil,
		notif:  notify.NewStore(kv),
	}
	a.sess = session.NewStore(a.client)

	ctx := context.Background()
	a.restoreSession(ctx)
	a.notif.CleanupOldNotifications()

	var runErr error
	switch os.Args[1] {
	case "register":
		runErr = a.cmdRegister(ctx, os.Args[2:])
	case "login":
		runErr = a.cmdLogin(ctx, os.Args[2:])
	case "logout":
		a.client.Logout(ctx)
		a.sess.ClearUser()
		fmt.Println("Signed out.")
	case "whoami":
		runErr = a.cmdWhoami(ctx)
	case "submit":
		runErr = a.cmdSubmit(ctx, os.Args[2:])
	case "reports":
		runErr = a.cmdReports(ctx, os.Args[2:])
	case "map":
		runErr = a.cmdMap(ctx)
	case "chat":
		runErr = a.cmdChat(ctx)
	case "notifications":
		runErr = a.cmdNotifications(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Print(usage)
		os.Exit(2)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "Error:", runErr)
		os.Exit(1)
	}
}

// restoreSession validates a saved token against the backend. An invalid or
// expired token is cleared so the app starts cleanly in guest mode.
func (a *app) restoreSession(ctx context.Context) {
	if _, ok := a.client.AuthToken(); !ok {
		return
	}
	u, err := a.client.GetUserProfile(ctx)
	if err != nil {
		a.client.ClearToken()
		return
	}
	a.sess.SetUser(*u)
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	phone := fs.String("phone", "", "phone number")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	res, err := a.client.Register(ctx, *name, *email, *phone, *password)
	if err != nil {
		return err
	}
	a.sess.SetUser(res.User)
	fmt.Printf("Welcome, %s. You are signed in.\n", res.User.FullName)
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	res, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	a.sess.SetUser(res.User)
	fmt.Printf("Welcome back, %s.\n", res.User.FullName)
	return nil
}

func (a *app) cmdWhoami(ctx context.Context) error {
	u, err := a.client.GetUserProfile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> %s\n", u.FullName, u.Email, u.Phone)
	return nil
}

func (a *app) cmdSubmit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	form := report.Form{}
	fs.StringVar(&form.IncidentType, "type", "", "incident type")
	fs.StringVar(&form.CustomType, "custom-type", "", `free text when -type is "Other"`)
	fs.StringVar(&form.Date, "date", "", "date (MM/DD/YYYY, default today)")
	fs.StringVar(&form.Time, "time", "", "time (HH:MM, default now)")
	fs.StringVar(&form.Location, "location", "", "where it happened")
	fs.StringVar(&form.Description, "description", "", "what happened")
	fs.StringVar(&form.Witnesses, "witnesses", "", "witness details")
	fs.BoolVar(&form.Anonymous, "anonymous", false, "submit anonymously")
	fs.StringVar(&form.Name, "name", "", "your name")
	fs.StringVar(&form.Phone, "phone", "", "your phone")
	fs.StringVar(&form.Email, "email", "", "your email")
	fs.StringVar(&form.MediaURI, "media", "", "path to a photo or video")
	fs.Parse(args)

	submitter := report.NewSubmitter(a.client, a.sess, a.notif, geo.FromEnv())
	r, err := submitter.Submit(ctx, form)
	if err != nil {
		return err
	}
	fmt.Printf("Report submitted: %s (%s)\n", r.ID, r.Status)
	return nil
}

func (a *app) cmdReports(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reports", flag.ExitOnError)
	mine := fs.Bool("mine", false, "only my reports")
	skip := fs.Int("skip", 0, "entries to skip")
	limit := fs.Int("limit", 100, "page size")
	fs.Parse(args)

	userID := ""
	if *mine {
		u, ok := a.sess.User()
		if !ok {
			return fmt.Errorf("sign in to list your reports")
		}
		userID = u.ID
	}
	list, err := a.client.GetReports(ctx, *skip, *limit, userID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No reports.")
		return nil
	}
	for _, r := range list {
		fmt.Printf("%-36s  %-12s  %-10s  %s  %s\n", r.ID, r.IncidentType, r.Status, r.Date, r.Location)
	}
	return nil
}

func (a *app) cmdMap(ctx context.Context) error {
	c, err := cache.NewCache(cache.Config{
		Type:  a.cfg.CacheType,
		Redis: cache.RedisConfig{Addr: a.cfg.RedisAddr},
		Local: cache.DefaultLocalConfig(),
	})
	if err != nil {
		return err
	}
	defer c.Close()

	userID := ""
	if u, ok := a.sess.User(); ok {
		userID = u.ID
	}
	view := mapview.New(a.client, c, geo.FromEnv())
	markers, err := view.Markers(ctx, userID)
	if err != nil {
		return err
	}
	for _, m := range markers {
		label := m.Title
		if m.IsDevice {
			label = "(you are here)"
		}
		fmt.Printf("%9.5f,%10.5f  %-12s  %s\n", m.Point.Lat, m.Point.Lng, m.IncidentType, label)
	}
	return nil
}

// cmdChat runs the interactive assistant loop. This is the one long-running
// command, so the daily notification cleanup cron lives here.
func (a *app) cmdChat(ctx context.Context) error {
	bot := assistant.New(assistant.Config{
		APIKey:  a.cfg.GeminiAPIKey,
		BaseURL: a.cfg.LLMBaseURL,
		Model:   a.cfg.LLMModel,
	}, logrus.New())

	cr := scheduler.NewCron(nil)
	if _, err := cr.Add("0 3 * * *", scheduler.FuncJob(func(context.Context) {
		a.notif.CleanupOldNotifications()
	})); err == nil {
		cr.Start()
		defer cr.Stop()
	}

	fmt.Println(`Safety assistant ready. Type "exit" to quit, "reset" to start over.`)
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "reset":
			bot.Reset()
			fmt.Println("Conversation cleared.")
			continue
		}
		fmt.Println(bot.Ask(ctx, line))
	}
}

func (a *app) cmdNotifications(args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}
	switch sub {
	case "list":
		list := a.notif.Notifications()
		if len(list) == 0 {
			fmt.Println("No notifications.")
			return nil
		}
		fmt.Printf("%d unread\n", a.notif.UnreadCount())
		for _, n := range list {
			mark := " "
			if !n.Read {
				mark = "*"
			}
			fmt.Printf("%s %-36s  %-16s  %s\n", mark, n.ID, n.Type, n.Title)
		}
	case "read":
		fs := flag.NewFlagSet("read", flag.ExitOnError)
		id := fs.String("id", "", "notification id")
		fs.Parse(args)
		if *id == "" {
			return fmt.Errorf("-id required")
		}
		a.notif.MarkAsRead(*id)
	case "read-all":
		a.notif.MarkAllAsRead()
	case "delete":
		fs := flag.NewFlagSet("delete", flag.ExitOnError)
		id := fs.String("id", "", "notification id")
		fs.Parse(args)
		if *id == "" {
			return fmt.Errorf("-id required")
		}
		a.notif.DeleteNotification(*id)
	case "clear":
		a.notif.ClearAllNotifications()
	case "settings":
		return a.cmdNotificationSettings(args)
	default:
		return fmt.Errorf("unknown notifications subcommand %q", sub)
	}
	return nil
}

func (a *app) cmdNotificationSettings(args []string) error {
	fs := flag.NewFlagSet("settings", flag.ExitOnError)
	safety := fs.String("safety-alerts", "", "on|off")
	incidents := fs.String("incident-reports", "", "on|off")
	location := fs.String("location-based", "", "on|off")
	sound := fs.String("sound", "", "on|off")
	vibration := fs.String("vibration", "", "on|off")
	fs.Parse(args)

	patch := notify.SettingsPatch{
		EnableSafetyAlerts:    parseToggle(*safety),
		EnableIncidentReports: parseToggle(*incidents),
		EnableLocationBased:   parseToggle(*location),
		NotificationSound:     parseToggle(*sound),
		Vibration:             parseToggle(*vibration),
	}
	cfg := a.notif.UpdateSettings(patch)
	fmt.Printf("safety-alerts=%t incident-reports=%t location-based=%t sound=%t vibration=%t\n",
		cfg.EnableSafetyAlerts, cfg.EnableIncidentReports, cfg.EnableLocationBased,
		cfg.NotificationSound, cfg.Vibration)
	return nil
}

func parseToggle(v string) *bool {
	switch strings.ToLower(v) {
	case "on", "true", "yes":
		t := true
		return &t
	case "off", "false", "no":
		f := false
		return &f
	}
	return nil
}
