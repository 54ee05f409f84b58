package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pthm/inertia/lib/client"
)

var (
	inspectComponent  string
	inspectOnly       []string
	inspectExcept     []string
	inspectExceptOnce []string
	inspectReset      []string
	inspectVersion    string
	inspectHTML       bool
	inspectDeferred   bool
	inspectYAML       bool
	inspectTimeout    time.Duration
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <url>",
	Short: "Fetch and print the page object of a URL",
	Long: `Visits a URL as the browser client would and prints the page object.

Partial reloads are made with --component and --only or --except. With
--deferred every deferred group is fetched after the first visit and
merged into the printed props.`,
	Example: `  inertia inspect http://localhost:8080/users
  inertia inspect http://localhost:8080/users --component Users/Index --only users
  inertia inspect http://localhost:8080/dashboard --deferred --yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	f := inspectCmd.Flags()
	f.StringVar(&inspectComponent, "component", "", "Component of a partial reload")
	f.StringSliceVar(&inspectOnly, "only", nil, "Props to include in a partial reload")
	f.StringSliceVar(&inspectExcept, "except", nil, "Props to exclude from a partial reload")
	f.StringSliceVar(&inspectExceptOnce, "except-once", nil, "Once props the client already holds")
	f.StringSliceVar(&inspectReset, "reset", nil, "Merge props to reset")
	f.StringVar(&inspectVersion, "version", "", "Asset version to send")
	f.BoolVar(&inspectHTML, "html", false, "Request the first-load HTML document")
	f.BoolVar(&inspectDeferred, "deferred", false, "Fetch deferred props after the first visit")
	f.BoolVar(&inspectYAML, "yaml", false, "Print YAML instead of JSON")
	f.DurationVar(&inspectTimeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	u, err := url.Parse(args[0])
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid url %q", args[0])
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), inspectTimeout)
	defer cancel()
	c := client.New(u.Scheme+"://"+u.Host, client.WithVersion(inspectVersion), client.WithLogger(newLogger()))

	page, err := c.Get(ctx, u.RequestURI(), client.Visit{
		Component:  inspectComponent,
		Only:       inspectOnly,
		Except:     inspectExcept,
		ExceptOnce: inspectExceptOnce,
		Reset:      inspectReset,
		HTML:       inspectHTML,
	})
	var conflict *client.ConflictError
	if errors.As(err, &conflict) {
		return fmt.Errorf("asset version %q is stale, reload %s", inspectVersion, conflict.Location)
	}
	if err != nil {
		return err
	}

	if inspectDeferred {
		for group := range page.DeferredProps {
			partial, err := c.Reload(ctx, page, group)
			if err != nil {
				return fmt.Errorf("load deferred group %q: %w", group, err)
			}
			for k, v := range partial.Props {
				page.Props[k] = v
			}
		}
	}

	// Round-trip through JSON so YAML output uses the wire keys.
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !inspectYAML {
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
