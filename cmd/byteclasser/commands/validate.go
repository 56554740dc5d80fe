/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: validate.go
Description: Vocabulary validation command for byteclasser. Loads a vocabulary without
scoring and prints its labels, target counts, fingerprint and skipped targets.
*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunValidate loads the vocabulary named by args[0] and reports on it
func RunValidate(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := SetupLogging(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Close()

	vocab, err := LoadVocabulary(args[0], viper.GetBool("strict"), logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	skipped := vocab.Skipped()

	fmt.Fprintf(out, "Vocabulary:  %s\n", vocab.Source())
	fmt.Fprintf(out, "Fingerprint: %s\n", vocab.Fingerprint())
	fmt.Fprintf(out, "Labels:      %d\n", vocab.Len())
	fmt.Fprintf(out, "Targets:     %d (%d skipped)\n", vocab.TargetCount(), len(skipped))

	meta := vocab.Metadata()
	fmt.Fprintf(out, "Metadata:    min_frequency=%d min_uniqueness=%g ngram_range=[%d, %d]\n",
		meta.MinFrequency, meta.MinUniqueness, meta.NGramRange[0], meta.NGramRange[1])
	fmt.Fprintln(out)

	for _, label := range vocab.Labels() {
		fmt.Fprintf(out, "  %-24s %4d targets (%d valid)\n", label.Name(), len(label.Targets()), label.ValidTargets())
		if label.Display() != label.Name() {
			fmt.Fprintf(out, "    note: label field %q differs from key %q; the key names the column\n", label.Display(), label.Name())
		}
	}

	if len(skipped) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Skipped targets:")
		for _, s := range skipped {
			fmt.Fprintf(out, "  %v\n", s)
		}
	}
	return nil
}
