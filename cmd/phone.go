package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmehdipour/phone-engine/internal/action"
	"github.com/jmehdipour/phone-engine/internal/config"
	"github.com/jmehdipour/phone-engine/internal/phone"
	"github.com/spf13/cobra"
)

// newPhoneCmd exposes the engine on the command line. Each subcommand takes
// the number as its arguments joined by spaces, so "092 618 3185" works
// unquoted.
func newPhoneCmd() *cobra.Command {
	var (
		anyCountry bool
		message    string
		printOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "phone",
		Short: "Process, format, mask and act on phone numbers",
	}

	engineFor := func() (*phone.Engine, config.Config, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, config.Config{}, fmt.Errorf("load config: %w", err)
		}
		e, err := cfg.Engine()
		return e, cfg, err
	}

	text := func(fn func(e *phone.Engine, raw string) string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			e, _, err := engineFor()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), fn(e, strings.Join(args, " ")))
			return err
		}
	}

	processCmd := &cobra.Command{
		Use:   "process <number>",
		Short: "Print the full processing result as JSON",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := engineFor()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(e.Process(strings.Join(args, " ")))
		},
	}

	formatCmd := &cobra.Command{
		Use:   "format <number>",
		Short: "Print the local display form",
		RunE: text(func(e *phone.Engine, raw string) string {
			return e.FormatForDisplay(raw)
		}),
	}

	fullCmd := &cobra.Command{
		Use:   "full <number>",
		Short: "Print the E.164 form (empty when invalid)",
		RunE: text(func(e *phone.Engine, raw string) string {
			return e.FullNumber(raw)
		}),
	}

	homeCmd := &cobra.Command{
		Use:   "home-valid <number>",
		Short: "Print whether the number is a valid home-country number",
		RunE: text(func(e *phone.Engine, raw string) string {
			return fmt.Sprint(e.IsValidHome(raw))
		}),
	}

	maskCmd := &cobra.Command{
		Use:   "mask <number>",
		Short: "Print the masked number",
		RunE: text(func(e *phone.Engine, raw string) string {
			if anyCountry {
				return e.MaskAny(raw)
			}
			return e.Mask(raw)
		}),
	}
	maskCmd.Flags().BoolVar(&anyCountry, "any", false, "mask any registered country with its own reveal length")

	carrierCmd := &cobra.Command{
		Use:   "carrier <number>",
		Short: "Print the home-country carrier and brand color",
		RunE: text(func(e *phone.Engine, raw string) string {
			c := e.Classify(raw)
			return c.CarrierName + " " + c.BrandColor
		}),
	}

	dispatch := func(intent action.Intent) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			e, cfg, err := engineFor()
			if err != nil {
				return err
			}
			var platform action.Platform = action.DesktopPlatform{}
			if printOnly {
				platform = action.LinkPlatform{}
			}
			d := action.NewDispatcher(e, platform, cfg.Phone.WhatsAppBaseURL)

			eff, err := d.Dispatch(cmd.Context(), strings.Join(args, " "), intent, message)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if intent == action.IntentCopy {
				if !eff.Copied {
					_, err = fmt.Fprintln(out, "clipboard unavailable")
					return err
				}
				_, err = fmt.Fprintln(out, "copied")
				return err
			}
			_, err = fmt.Fprintln(out, eff.URI)
			return err
		}
	}

	callCmd := &cobra.Command{
		Use:   "call <number>",
		Short: "Open the dialer for the number",
		RunE:  dispatch(action.IntentCall),
	}
	whatsappCmd := &cobra.Command{
		Use:   "whatsapp <number>",
		Short: "Open a WhatsApp chat with the number",
		RunE:  dispatch(action.IntentWhatsApp),
	}
	whatsappCmd.Flags().StringVarP(&message, "message", "m", "", "prefilled chat message")
	copyCmd := &cobra.Command{
		Use:   "copy <number>",
		Short: "Copy the number, as typed, to the clipboard",
		RunE:  dispatch(action.IntentCopy),
	}

	for _, c := range []*cobra.Command{callCmd, whatsappCmd, copyCmd} {
		c.Flags().BoolVar(&printOnly, "print", false, "print the link instead of opening it")
	}

	cmd.AddCommand(processCmd, formatCmd, fullCmd, homeCmd, maskCmd, carrierCmd, callCmd, whatsappCmd, copyCmd)
	return cmd
}
