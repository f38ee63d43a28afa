package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookscan/internal/isbn"
)

// errNoMatch makes "isbn match" exit non-zero so it can be used in shell
// conditions.
var errNoMatch = errors.New("codes do not identify the same book")

func newISBNCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "isbn",
		Short: "Validate, convert and compare ISBNs offline",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "validate <isbn>",
			Short: "Check an ISBN-10 or ISBN-13",
			Args:  cobra.ExactArgs(1),
			RunE:  runValidate,
		},
		&cobra.Command{
			Use:   "convert <isbn>",
			Short: "Convert between ISBN-10 and ISBN-13",
			Args:  cobra.ExactArgs(1),
			RunE:  runConvert,
		},
		&cobra.Command{
			Use:   "match <a> <b>",
			Short: "Report whether two codes identify the same book",
			Args:  cobra.ExactArgs(2),
			RunE:  runMatch,
		},
		&cobra.Command{
			Use:   "upc <upc>",
			Short: "Reconstruct an ISBN from an extended UPC barcode",
			Args:  cobra.ExactArgs(1),
			RunE:  runUPC,
		},
	)
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	v := isbn.Parse(isbn.Normalize(args[0]))
	if !v.Valid() {
		return fmt.Errorf("%s: %s", args[0], v.Status())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", v.String(), v.Type(), isbn.Hyphenate(v.String()))
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	converted, err := isbn.Convert(isbn.Normalize(args[0]))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), converted)
	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	if !isbn.MatchStrings(isbn.Normalize(args[0]), isbn.Normalize(args[1])) {
		fmt.Fprintln(cmd.OutOrStdout(), "no match")
		return errNoMatch
	}
	fmt.Fprintln(cmd.OutOrStdout(), "match")
	return nil
}

func runUPC(cmd *cobra.Command, args []string) error {
	v, ok := isbn.FromUPC(args[0])
	if !ok {
		return fmt.Errorf("%s: no ISBN could be reconstructed", args[0])
	}
	isbn13, err := v.To13()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", v.String(), isbn13)
	return nil
}
