// Command nodeinfo prints the frequency response of an IIR filter node.
//
// Usage:
//
//	nodeinfo [flags] [preset ...]
//
// Coefficients come either from a named preset or from -ff and -fb.
//
// Examples:
//
//	nodeinfo onepole
//	nodeinfo -points 32 -log resonator
//	nodeinfo -ff 1,-1 -fb 1,-0.995
//	nodeinfo -list
package main

import (
	"flag"
	"fmt"
	"math"
	"math/cmplx"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-webaudio/dsp/core"
	"github.com/cwbudde/algo-webaudio/dsp/node"
)

type preset struct {
	name   string
	ff, fb []float64
}

var presets = []preset{
	{"onepole", []float64{0.5}, []float64{1, -0.5}},
	{"dcblock", []float64{1, -1}, []float64{1, -0.995}},
	{"resonator", []float64{0.0078}, []float64{1, -1.9759, 0.9845}},
	{"comb", []float64{1, 0, 0, 0, 0, 0, 0, 0.5}, []float64{1}},
	{"unstable", []float64{1}, []float64{1, -1.01}},
}

func main() {
	rate := flag.Float64("rate", 48000, "sample rate in Hz")
	points := flag.Int("points", 16, "number of frequencies between 0 and Nyquist")
	logSpaced := flag.Bool("log", false, "space frequencies logarithmically from 10 Hz")
	ffFlag := flag.String("ff", "", "comma-separated feedforward coefficients")
	fbFlag := flag.String("fb", "", "comma-separated feedback coefficients")
	list := flag.Bool("list", false, "list available presets")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: nodeinfo [flags] [preset ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the frequency response of IIR filter coefficients.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  nodeinfo onepole\n")
		fmt.Fprintf(os.Stderr, "  nodeinfo -ff 1,-1 -fb 1,-0.995\n")
		fmt.Fprintf(os.Stderr, "  nodeinfo -list\n")
	}
	flag.Parse()

	if *list {
		printList()
		return
	}

	var selected []preset
	if *ffFlag != "" || *fbFlag != "" {
		ff, err := parseFloats(*ffFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: -ff: %v\n", err)
			os.Exit(2)
		}
		fb, err := parseFloats(*fbFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: -fb: %v\n", err)
			os.Exit(2)
		}
		selected = append(selected, preset{"custom", ff, fb})
	}
	selected = append(selected, resolvePresets(flag.Args())...)

	if len(selected) == 0 {
		selected = presets
	}

	ctx := node.NewContext(core.WithSampleRate(*rate))
	freqs := frequencies(*points, ctx.SampleRate, *logSpaced)

	status := 0
	for _, p := range selected {
		if err := printResponse(ctx, p, freqs); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", p.name, err)
			status = 1
		}
	}
	os.Exit(status)
}

func printList() {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.name
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(n)
	}
}

func resolvePresets(names []string) []preset {
	byName := make(map[string]preset, len(presets))
	for _, p := range presets {
		byName[p.name] = p
	}

	var result []preset
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		p, ok := byName[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: unknown preset %q (use -list to see available)\n", name)
			continue
		}
		result = append(result, p)
	}
	return result
}

func parseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	fields := strings.Split(s, ",")
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// frequencies returns n points from 0 (or 10 Hz when logarithmic) up to and
// including Nyquist.
func frequencies(n int, sampleRate float64, logSpaced bool) []float64 {
	n = max(n, 2)
	nyquist := sampleRate / 2
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		if logSpaced {
			out[i] = 10 * math.Pow(nyquist/10, t)
		} else {
			out[i] = t * nyquist
		}
	}
	out[n-1] = nyquist
	return out
}

func printResponse(ctx node.Context, p preset, freqs []float64) error {
	n, err := node.NewIIRFilterNode(ctx, p.ff, p.fb, node.WithIIRChannelCount(1))
	if err != nil {
		return err
	}

	mag := make([]float64, len(freqs))
	phase := make([]float64, len(freqs))
	if err := n.GetFrequencyResponse(freqs, mag, phase); err != nil {
		return err
	}

	c := n.Coefficients()
	fmt.Printf("%s: order %d, stable %t, tail %d samples\n", p.name, c.Order(), c.IsStable(), n.TailLength())

	if poles, err := c.Poles(); err == nil && len(poles) > 0 {
		parts := make([]string, len(poles))
		for i, z := range poles {
			parts[i] = fmt.Sprintf("%.4f@%.1f°", cmplx.Abs(z), cmplx.Phase(z)*180/math.Pi)
		}
		fmt.Printf("poles: %s\n", strings.Join(parts, " "))
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Freq [Hz]\tMagnitude\tMagnitude [dB]\tPhase [deg]\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "---------\t---------\t--------------\t-----------\n"); err != nil {
		return err
	}

	for i, f := range freqs {
		if _, err := fmt.Fprintf(tw, "%.1f\t%.6f\t%.2f\t%.2f\n",
			f, mag[i], core.LinearToDB(mag[i]), phase[i]*180/math.Pi); err != nil {
			return err
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Println()
	return nil
}
