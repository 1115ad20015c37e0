package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/docopt/docopt-go"

	"github.com/ndart/console/console"
)

const DefaultApiUrl = "https://console.ndart.org"
const DefaultWsUrl = "wss://console.ndart.org/push"

const LocalVersion = "0.0.0-local"

func main() {
	usage := fmt.Sprintf(
		`Race console terminal dashboard.

The default urls are:
    api_url: %s
    ws_url: %s

Usage:
    dashctl watch --user_auth=<user_auth> [--password=<password>]
        [--api_url=<api_url>]
        [--ws_url=<ws_url>]
        [--interval=<interval>]

Options:
    -h --help                Show this screen.
    --version                Show version.
    --api_url=<api_url>
    --ws_url=<ws_url>
    --user_auth=<user_auth>
    --password=<password>
    --interval=<interval>    Redraw interval in seconds [default: 5].`,
		DefaultApiUrl,
		DefaultWsUrl,
	)

	opts, err := docopt.ParseArgs(usage, os.Args[1:], RequireVersion())
	if err != nil {
		panic(err)
	}

	if watch_, _ := opts.Bool("watch"); watch_ {
		watch(opts)
	}
}

func watch(opts docopt.Opts) {
	interval, _ := opts.Int("--interval")

	var apiUrl string
	if apiUrlAny := opts["--api_url"]; apiUrlAny != nil {
		apiUrl = apiUrlAny.(string)
	} else {
		apiUrl = DefaultApiUrl
	}

	var wsUrl string
	if wsUrlAny := opts["--ws_url"]; wsUrlAny != nil {
		wsUrl = wsUrlAny.(string)
	} else {
		wsUrl = DefaultWsUrl
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	defer cancel()

	api := console.NewConsoleApiWithContext(ctx, apiUrl)

	sessionJwt := watchAuth(ctx, api, opts)
	api.SetSessionJwt(sessionJwt)

	parsedJwt, err := console.ParseSessionJwtUnverified(sessionJwt)
	if err != nil {
		panic(err)
	}
	fmt.Printf("user: %s (%s)\n", parsedJwt.UserName, parsedJwt.UserId)

	transport := console.NewPushTransportWithDefaults(ctx, wsUrl, sessionJwt)
	defer transport.Close()

	screen := NewScreen(parsedJwt)

	eventsBinding := console.BindEvents(transport, screen.Events)
	defer eventsBinding.Close()
	encountersBinding := console.BindEncounters(transport, screen.Encounters)
	defer encountersBinding.Close()
	observationsBinding := console.BindObservations(transport, screen.Observations)
	defer observationsBinding.Close()
	participantsBinding := console.BindParticipants(transport, screen.Participants)
	defer participantsBinding.Close()

	agenciesBinding := console.BindAgencies(transport, func() ([]*console.Agency, error) {
		result, err := api.ListAgenciesSync()
		if err != nil {
			return nil, err
		}
		return result.Data, nil
	})
	defer agenciesBinding.Close()
	screen.Agencies = agenciesBinding.Store()

	categoriesBinding := console.BindObservationCategories(transport, func() ([]*console.ObservationCategory, error) {
		result, err := api.ListObservationCategoriesSync()
		if err != nil {
			return nil, err
		}
		return result.Data, nil
	})
	defer categoriesBinding.Close()
	screen.Categories = categoriesBinding.Store()

	// initial full fetch, then the push channel keeps the tables current
	if err := agenciesBinding.Reload(); err != nil {
		panic(err)
	}
	if err := categoriesBinding.Reload(); err != nil {
		panic(err)
	}

	eventsResult, err := api.ListEventsSync()
	if err != nil {
		panic(err)
	}
	eventsBinding.Load(eventsResult.Data)

	encountersResult, err := api.ListEncountersSync()
	if err != nil {
		panic(err)
	}
	encountersBinding.Load(encountersResult.Data)

	observationsResult, err := api.ListObservationsSync()
	if err != nil {
		panic(err)
	}
	observationsBinding.Load(observationsResult.Data)

	participantsResult, err := api.ListParticipantsSync()
	if err != nil {
		panic(err)
	}
	participantsBinding.Load(participantsResult.Data)

	for {
		eventsBinding.Redecorate(time.Now())
		screen.Render(os.Stdout)

		select {
		case <-ctx.Done():
			fmt.Printf("\n")
			os.Exit(0)
		case <-time.After(time.Duration(interval) * time.Second):
		}
	}
}

func watchAuth(ctx context.Context, api *console.ConsoleApi, opts docopt.Opts) string {
	userAuth := opts["--user_auth"].(string)

	var password string
	if passwordAny := opts["--password"]; passwordAny != nil {
		password = passwordAny.(string)
	} else {
		fmt.Print("Enter password: ")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			panic(err)
		}
		password = string(passwordBytes)
		fmt.Printf("\n")
	}

	loginCallback, loginChannel := console.NewBlockingApiCallback[*console.AuthLoginResult]()

	loginArgs := &console.AuthLoginArgs{
		UserAuth: userAuth,
		Password: password,
	}

	api.AuthLogin(loginArgs, loginCallback)

	var loginResult console.ApiCallbackResult[*console.AuthLoginResult]
	select {
	case <-ctx.Done():
		os.Exit(0)
	case loginResult = <-loginChannel:
	}

	if loginResult.Error != nil {
		panic(loginResult.Error)
	}
	if loginResult.Result.Error != nil {
		panic(fmt.Errorf("%s", loginResult.Result.Error.Message))
	}

	return loginResult.Result.SessionJwt
}

func RequireVersion() string {
	if version := os.Getenv("CONSOLE_VERSION"); version != "" {
		return version
	}
	return LocalVersion
}
