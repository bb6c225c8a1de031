// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/oplpbx"
	"github.com/ik5/oplpbx/audio"
	"github.com/ik5/oplpbx/reference"
)

var tolerance float64

var compareCmd = &cobra.Command{
	Use:   "compare <module> <recording>",
	Short: "Compare a rendering with a reference recording",
	Long: `compare renders a subsong and measures how far it is from a recording
(wav, aiff, mp3 or ogg). Both are mixed down to mono at the recording's
rate. The command fails when the RMS difference exceeds --tolerance.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := reference.Open(args[1])
		if err != nil {
			return err
		}
		defer ref.Close()

		st, err := oplpbx.Open(args[0], renderOptions())
		if err != nil {
			return err
		}
		defer st.Close()

		res, err := reference.Compare(ref, audio.NewPCM16Source(st, config.rate, 2))
		if err != nil {
			return err
		}

		verdict := goodStyle.Render("match")
		if !res.Within(tolerance) {
			verdict = badStyle.Render("differs")
		}
		fmt.Fprint(cmd.OutOrStdout(), report(verdict,
			field{"frames", res.Frames},
			field{"extra", res.Extra},
			field{"rms", fmt.Sprintf("%.5f", res.RMS)},
			field{"peak", fmt.Sprintf("%.5f", res.Peak)},
			field{"ref rms", fmt.Sprintf("%.5f", res.RefRMS)},
			field{"correlation", fmt.Sprintf("%.4f", res.Correlated)},
		))

		if !res.Within(tolerance) {
			return fmt.Errorf("rms %.5f above tolerance %.5f", res.RMS, tolerance)
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().Float64Var(&tolerance, "tolerance", 0.05, "Largest accepted RMS difference")
}
