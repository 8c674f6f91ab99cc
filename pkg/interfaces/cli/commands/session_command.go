package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/idro/reliefmatch/pkg/domain/entities"
	"github.com/idro/reliefmatch/pkg/infrastructure/events"
	"github.com/idro/reliefmatch/pkg/infrastructure/repositories/scenario"
	"github.com/idro/reliefmatch/pkg/interfaces/cli/output"
)

// errQuit ends the interactive loop
var errQuit = errors.New("quit")

// SessionConfig holds configuration for the interactive coordination session
type SessionConfig struct {
	Input      InputConfig
	StatusFile string
	Verbose    bool
	Env        Environment
	In         io.Reader // defaults to stdin
}

// SessionCommand runs an interactive session in which snapshot updates and
// status toggles trigger recomputation, the way a live dashboard would
type SessionCommand struct {
	config    SessionConfig
	session   *session
	camps     []*entities.Camp
	providers []*entities.Provider
	out       io.Writer
}

// NewSessionCommand creates a new session command with the given configuration
func NewSessionCommand(config SessionConfig) *SessionCommand {
	return &SessionCommand{
		config: config,
		out:    config.Env.out(),
	}
}

// Execute loads the snapshots, computes the first plan and reads commands until
// input ends or the operator quits
func (c *SessionCommand) Execute(ctx context.Context) error {
	camps, providers, err := loadSnapshots(ctx, c.config.Input)
	if err != nil {
		return fmt.Errorf("failed to load snapshots: %w", err)
	}
	c.camps = camps
	c.providers = providers

	c.session, err = newSession(c.config.Env, camps, providers, c.config.StatusFile)
	if err != nil {
		return err
	}

	if c.config.Verbose {
		logger := c.config.Env.logger().Named("session")
		handler := &events.HandlerFunc{
			Types: []string{events.AllocationAssignedEvent, events.AllocationStatusChangedEvent, events.ShortfallIdentifiedEvent},
			Fn: func(event events.Event) error {
				logger.Info("Event received",
					zap.String("type", event.Type()),
					zap.String("stream", event.StreamID()))
				return nil
			},
		}
		if err := c.session.eventStore.Subscribe(handler.Types, handler); err != nil {
			return fmt.Errorf("failed to subscribe to events: %w", err)
		}
		defer c.session.eventStore.Unsubscribe(handler)
	}
	defer c.session.eventStore.Wait()

	if _, err := c.session.engine.Recompute(ctx); err != nil {
		return err
	}

	return c.runInteractiveSession(ctx)
}

func (c *SessionCommand) runInteractiveSession(ctx context.Context) error {
	in := c.config.In
	if in == nil {
		in = os.Stdin
	}
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(c.out, "=== Relief Coordination Session ===")
	c.printSummary()
	fmt.Fprintln(c.out, "Type 'help' for available commands")
	fmt.Fprintln(c.out)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(c.out, "relief> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		err := c.processCommand(ctx, line)
		if errors.Is(err, errQuit) {
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		}
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
		fmt.Fprintln(c.out)
	}

	return scanner.Err()
}

func (c *SessionCommand) processCommand(ctx context.Context, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "help", "h":
		c.printInteractiveHelp()
	case "plan", "allocations":
		return c.handleShowPlan()
	case "shortfalls":
		return c.handleShowShortfalls()
	case "toggle", "t":
		return c.handleToggle(ctx, args)
	case "need":
		return c.handleSetNeed(ctx, args)
	case "stock":
		return c.handleSetStock(ctx, args)
	case "recompute", "r":
		if _, err := c.session.engine.Recompute(ctx); err != nil {
			return err
		}
		c.printSummary()
	case "log":
		return c.handleShowLog(args)
	case "status":
		return c.handleStatus()
	case "events":
		return c.handleShowEvents(args)
	case "quit", "q", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", command)
	}

	return nil
}

func (c *SessionCommand) handleShowPlan() error {
	engine := c.session.engine
	return output.Generate(output.Result{
		Plan:       engine.LatestPlan(),
		Report:     engine.Report(),
		MissionLog: engine.MissionLog(),
	}, output.Config{Format: "text", Verbose: c.config.Verbose, Writer: c.out})
}

func (c *SessionCommand) handleShowShortfalls() error {
	shortfalls := c.session.engine.Shortfalls()
	if len(shortfalls) == 0 {
		fmt.Fprintln(c.out, "All needs covered")
		return nil
	}
	for _, s := range shortfalls {
		fmt.Fprintf(c.out, "  %s %s: %d of %d %s unmet\n",
			s.CampID, s.CampName, s.Unmet, s.Requested, s.Resource.Label())
	}
	return nil
}

func (c *SessionCommand) handleToggle(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: toggle <allocation-id>")
	}

	id := entities.AllocationID(args[0])
	status, err := c.session.engine.ToggleStatus(ctx, id)
	if err != nil {
		return err
	}
	if c.config.StatusFile != "" {
		if err := scenario.SaveStatuses(c.config.StatusFile, c.session.statusRepo.Snapshot()); err != nil {
			return err
		}
	}

	fmt.Fprintf(c.out, "%s is now %s\n", id, status)
	return nil
}

// handleSetNeed replaces one resource need of a camp and recomputes
func (c *SessionCommand) handleSetNeed(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: need <camp-id> <resource> <quantity>")
	}
	rt, qty, err := parseResourceQuantity(args[1], args[2])
	if err != nil {
		return err
	}

	for i, camp := range c.camps {
		if camp == nil || camp.ID != args[0] {
			continue
		}
		updated := *camp
		updated.Needs = camp.Needs.Clone()
		updated.Needs[rt] = qty
		c.camps[i] = &updated

		fmt.Fprintf(c.out, "Set %s need of %s to %d\n", rt.Label(), camp.ID, qty)
		return c.pushSnapshots(ctx)
	}
	return fmt.Errorf("camp not found: %s", args[0])
}

// handleSetStock replaces one resource stock of a provider and recomputes
func (c *SessionCommand) handleSetStock(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: stock <provider-id> <resource> <quantity>")
	}
	rt, qty, err := parseResourceQuantity(args[1], args[2])
	if err != nil {
		return err
	}

	for i, provider := range c.providers {
		if provider == nil || provider.ID != args[0] {
			continue
		}
		updated := *provider
		updated.Inventory = provider.Inventory.Clone()
		updated.Inventory[rt] = qty
		c.providers[i] = &updated

		fmt.Fprintf(c.out, "Set %s stock of %s to %d\n", rt.Label(), provider.ID, qty)
		return c.pushSnapshots(ctx)
	}
	return fmt.Errorf("provider not found: %s", args[0])
}

func (c *SessionCommand) pushSnapshots(ctx context.Context) error {
	var newest string
	if entries := c.session.engine.MissionLog(); len(entries) > 0 {
		newest = entries[0].Text
	}
	if _, err := c.session.engine.UpdateSnapshots(ctx, c.camps, c.providers); err != nil {
		return err
	}
	c.printSummary()

	// Entries are newest first; print everything ahead of the previous head
	for _, entry := range c.session.engine.MissionLog() {
		if entry.Text == newest {
			break
		}
		fmt.Fprintf(c.out, "  + %s\n", entry.Text)
	}
	return nil
}

func (c *SessionCommand) handleShowLog(args []string) error {
	limit, err := parseLimit(args)
	if err != nil {
		return err
	}

	entries := c.session.engine.MissionLog()
	fmt.Fprintf(c.out, "=== Mission Log (latest %d of %d) ===\n", min(limit, len(entries)), len(entries))
	for i, entry := range entries {
		if i >= limit {
			break
		}
		fmt.Fprintf(c.out, "[%s] %s\n", entry.Time.Format("15:04:05"), entry.Text)
	}
	return nil
}

func (c *SessionCommand) handleStatus() error {
	allEvents, err := c.session.eventStore.ReadAllEvents(0)
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	fmt.Fprintln(c.out, "=== System Status ===")
	c.printSummary()
	fmt.Fprintf(c.out, "Total events recorded: %d\n", len(allEvents))

	eventCounts := make(map[string]int)
	for _, event := range allEvents {
		eventCounts[event.Type()]++
	}
	fmt.Fprintln(c.out, "\nEvent counts by type:")
	for _, eventType := range []string{
		events.PlanRecomputedEvent,
		events.AllocationAssignedEvent,
		events.ShortfallIdentifiedEvent,
		events.AllocationStatusChangedEvent,
	} {
		fmt.Fprintf(c.out, "  %s: %d\n", eventType, eventCounts[eventType])
	}

	statuses := make(map[entities.AllocationStatus]int)
	for _, alloc := range c.session.engine.Allocations() {
		statuses[alloc.Status]++
	}
	fmt.Fprintf(c.out, "\nAllocations: %d assigned, %d dispatched, %d delivered\n",
		statuses[entities.StatusAssigned], statuses[entities.StatusDispatched], statuses[entities.StatusDelivered])
	return nil
}

func (c *SessionCommand) handleShowEvents(args []string) error {
	limit, err := parseLimit(args)
	if err != nil {
		return err
	}

	allEvents, err := c.session.eventStore.ReadAllEvents(0)
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	fmt.Fprintf(c.out, "=== Recent Events (last %d) ===\n", limit)
	start := max(0, len(allEvents)-limit)
	for _, event := range allEvents[start:] {
		fmt.Fprintf(c.out, "[%s] %s -> %s\n",
			event.Timestamp().Format("15:04:05"),
			event.Type(),
			event.StreamID())
	}
	return nil
}

func (c *SessionCommand) printSummary() {
	if plan := c.session.engine.LatestPlan(); plan != nil {
		fmt.Fprintln(c.out, plan.GetSummary())
	}
}

func parseResourceQuantity(resource, quantity string) (entities.ResourceType, entities.Quantity, error) {
	rt, err := entities.ParseResourceType(resource)
	if err != nil {
		return rt, 0, err
	}
	qty, err := strconv.ParseInt(quantity, 10, 64)
	if err != nil {
		return rt, 0, fmt.Errorf("invalid quantity: %s", quantity)
	}
	return rt, entities.Quantity(qty), nil
}

func parseLimit(args []string) (int, error) {
	limit := 10
	if len(args) > 0 {
		l, err := strconv.Atoi(args[0])
		if err != nil || l <= 0 {
			return 0, fmt.Errorf("invalid limit: %s", args[0])
		}
		limit = l
	}
	return limit, nil
}

func (c *SessionCommand) printInteractiveHelp() {
	fmt.Fprintln(c.out, `Available commands:

  plan
      Show the current allocation plan, fulfillment report and mission log

  shortfalls
      Show unmet needs

  toggle <allocation-id>
      Advance an allocation ASSIGNED -> DISPATCHED -> DELIVERED -> ASSIGNED
      Example: toggle C1-P1

  need <camp-id> <resource> <quantity>
      Replace a camp's need and recompute
      Example: need C2 beds 120

  stock <provider-id> <resource> <quantity>
      Replace a provider's stock and recompute
      Example: stock P4 water 500

  recompute, r
      Recompute the plan from the current snapshots

  log [limit]
      Show the newest mission log entries (default: 10)

  status
      Show plan summary, event counts and allocation statuses

  events [limit]
      Show recent events (default: 10)

  help, h
      Show this help message

  quit, q, exit
      Leave the session`)
}
