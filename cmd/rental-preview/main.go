// Command rental-preview проходит одну попытку бронирования так же, как клиентское приложение:
// берет у сервиса действующие правила товара, выбирает даты, считает стоимость локально
// и спрашивает доступность у сервиса.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/decor-rental-service/internal/integrations/availabilityservice"
	"github.com/m04kA/decor-rental-service/pkg/bookingflow"
	"github.com/m04kA/decor-rental-service/pkg/logger"
	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// options параметры командной строки
type options struct {
	apiURL     string
	itemID     int64
	categoryID int64
	rate       string
	units      int
	quantity   int
	start      string
	end        string
	pickup     string
	ret        string
	timeout    time.Duration
	noCheck    bool
	offline    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("rental-preview", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.apiURL, "api", "http://localhost:8080", "base URL of the rental service")
	fs.Int64Var(&opts.itemID, "item", 0, "catalog item ID")
	fs.Int64Var(&opts.categoryID, "category", 0, "catalog category ID, used to resolve category rules")
	fs.StringVar(&opts.rate, "rate", "", "daily rate, e.g. 45.00")
	fs.IntVar(&opts.units, "units", 1, "units the item has in stock")
	fs.IntVar(&opts.quantity, "quantity", 1, "units to rent")
	fs.StringVar(&opts.start, "start", "", "pickup date YYYY-MM-DD")
	fs.StringVar(&opts.end, "end", "", "return date YYYY-MM-DD, derived from the rules when empty")
	fs.StringVar(&opts.pickup, "pickup-weekday", "friday", "pickup weekday (offline only)")
	fs.StringVar(&opts.ret, "return-weekday", "sunday", "return weekday (offline only)")
	fs.DurationVar(&opts.timeout, "timeout", 5*time.Second, "availability check timeout")
	fs.BoolVar(&opts.noCheck, "no-check", false, "skip the availability check")
	fs.BoolVar(&opts.offline, "offline", false, "do not contact the service: use the weekday flags and default rates, skip the check")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.itemID <= 0 {
		return nil, errors.New("-item is required")
	}
	if opts.start == "" {
		return nil, errors.New("-start is required")
	}
	if opts.rate == "" {
		return nil, errors.New("-rate is required")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	log, err := logger.NewWithWriter(stderr, "info", logger.FormatText)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 2
	}

	opts, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			log.Error("Invalid arguments: %v", err)
		}
		return 2
	}

	rate, err := decimal.NewFromString(opts.rate)
	if err != nil {
		log.Error("Invalid rate %q: %v", opts.rate, err)
		return 2
	}

	start, err := time.ParseInLocation(rentalcalc.DateFormat, opts.start, time.UTC)
	if err != nil {
		log.Error("Invalid start date %q: %v", opts.start, err)
		return 2
	}

	client := availabilityservice.NewClient(opts.apiURL, opts.timeout)

	var rules rentalcalc.Rules
	if opts.offline {
		rules, err = buildRules(opts)
		if err != nil {
			log.Error("Invalid rules: %v", err)
			return 2
		}
		fmt.Fprintf(stdout, "rules:  %s (offline)\n", describeRules(rules))
	} else {
		var scope string
		rules, scope, err = fetchRules(ctx, client, opts)
		if err != nil {
			log.Warn("Rules unavailable, retry later or pass -offline: %v", err)
			return 3
		}
		fmt.Fprintf(stdout, "rules:  %s (%s)\n", describeRules(rules), scope)
	}

	// Доступность товара для аренды решает сервис: отказ придет как ошибка проверки
	item := rentalcalc.RentalItem{ID: opts.itemID, DailyRate: rate, IsRentable: true, Units: opts.units}
	session := bookingflow.NewSession(item, opts.quantity, rules, client, bookingflow.WithCheckTimeout(opts.timeout))

	snap := session.SetStart(start)
	if opts.end != "" {
		end, err := time.ParseInLocation(rentalcalc.DateFormat, opts.end, time.UTC)
		if err != nil {
			log.Error("Invalid end date %q: %v", opts.end, err)
			return 2
		}
		snap = session.SetEnd(end)
	}

	printSnapshot(stdout, snap)
	if snap.State != bookingflow.StateWindowComplete {
		if snap.Err == nil {
			log.Warn("No return date: %s is not a pickup day, pass -end", start.Format(rentalcalc.DateFormat))
		}
		return 1
	}

	if opts.noCheck || opts.offline {
		return 0
	}

	snap, err = session.CheckAvailability(ctx)
	fmt.Fprintf(stdout, "availability: %s\n", snap.State)
	switch {
	case err == nil:
		fmt.Fprintln(stdout, "ready to submit")
		return 0
	case rentalcalc.IsValidationError(err):
		fmt.Fprintf(stdout, "rejected: %v\n", err)
		return 1
	case errors.Is(err, rentalcalc.ErrAvailabilityUnknown):
		log.Warn("Availability unknown: %v", err)
		return 3
	default:
		return 1
	}
}

// fetchRules запрашивает у сервиса правила, действующие для товара
func fetchRules(ctx context.Context, client *availabilityservice.Client, opts *options) (rentalcalc.Rules, string, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	var categoryID *int64
	if opts.categoryID > 0 {
		categoryID = &opts.categoryID
	}

	resp, err := client.GetRules(ctx, opts.itemID, categoryID)
	if err != nil {
		return rentalcalc.Rules{}, "", err
	}
	rules, err := resp.CalcRules()
	if err != nil {
		return rentalcalc.Rules{}, "", err
	}
	return rules, resp.Scope, nil
}

// buildRules собирает правила из флагов для режима -offline
func buildRules(opts *options) (rentalcalc.Rules, error) {
	rules := rentalcalc.DefaultRules()

	pickup, err := rentalcalc.ParseWeekday(opts.pickup)
	if err != nil {
		return rules, err
	}
	ret, err := rentalcalc.ParseWeekday(opts.ret)
	if err != nil {
		return rules, err
	}

	rules.PickupWeekday = pickup
	rules.ReturnWeekday = ret
	rules.DefaultRentalDays = int(ret-pickup+7) % 7
	if rules.DefaultRentalDays == 0 {
		rules.DefaultRentalDays = 7
	}
	return rules, rules.Validate()
}

func describeRules(rules rentalcalc.Rules) string {
	return fmt.Sprintf("pickup %s, return %s, %d days, tax %s%%, deposit %s%%",
		rentalcalc.FormatWeekday(rules.PickupWeekday), rentalcalc.FormatWeekday(rules.ReturnWeekday),
		rules.DefaultRentalDays, rules.TaxRate.Shift(2).String(), rules.DepositRate.Shift(2).String())
}

func printSnapshot(w io.Writer, snap bookingflow.Snapshot) {
	fmt.Fprintf(w, "start:  %s\n", formatDate(snap.StartDate))
	fmt.Fprintf(w, "end:    %s\n", formatDate(snap.EndDate))
	fmt.Fprintf(w, "state:  %s\n", snap.State)
	if snap.Err != nil {
		fmt.Fprintf(w, "error:  %v\n", snap.Err)
	}
	if snap.Quote == nil {
		return
	}

	q := snap.Quote
	fmt.Fprintf(w, "days:      %d\n", q.RentalDays)
	fmt.Fprintf(w, "quantity:  %d\n", q.Quantity)
	fmt.Fprintf(w, "subtotal:  %s\n", rentalcalc.FormatMoney(q.Subtotal))
	fmt.Fprintf(w, "tax:       %s\n", rentalcalc.FormatMoney(q.Tax))
	fmt.Fprintf(w, "total:     %s\n", rentalcalc.FormatMoney(q.Total))
	fmt.Fprintf(w, "deposit:   %s\n", rentalcalc.FormatMoney(q.Deposit))
	fmt.Fprintf(w, "total due: %s\n", rentalcalc.FormatMoney(snap.TotalDue()))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(rentalcalc.DateFormat) + " (" + t.Weekday().String() + ")"
}
