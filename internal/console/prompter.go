// Package console collects job parameters interactively.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"histoenhance/internal/config"
	"histoenhance/internal/models"
	"histoenhance/internal/rawio"
)

var ErrNoInput = errors.New("input ended before all parameters were read")

// Prompter asks for one job's parameters in a fixed order:
// input file, width, height, window bounds, output file.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)
	return &Prompter{in: sc, out: out}
}

// Collect fills the input, size, window and output of defaults. It stops
// right after the first answer if the input file does not exist.
func (p *Prompter) Collect(defaults config.Job) (config.Job, error) {
	job := defaults

	src, err := p.ask("Input file: ")
	if err != nil {
		return job, err
	}
	if !rawio.Exists(src) {
		fmt.Fprintf(p.out, "File [%s] not found.\n", src)
		return job, fmt.Errorf("%w: %s", rawio.ErrNotExist, src)
	}
	job.Input = src

	if job.Width, err = p.askInt("Width (pixels): ", "width"); err != nil {
		return job, err
	}
	if job.Height, err = p.askInt("Height (pixels): ", "height"); err != nil {
		return job, err
	}

	var w models.Window
	if w.Low, err = p.askInt("Window lower bound: ", "window lower bound"); err != nil {
		return job, err
	}
	if w.High, err = p.askInt("Window upper bound: ", "window upper bound"); err != nil {
		return job, err
	}
	job.Window = &w

	if job.Output, err = p.ask("Output file: "); err != nil {
		return job, err
	}
	return job, nil
}

// Report prints the final outcome line.
func (p *Prompter) Report(ok bool) {
	if ok {
		fmt.Fprintln(p.out, ">Succeeded.")
	} else {
		fmt.Fprintln(p.out, ">Failed.")
	}
}

func (p *Prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", ErrNoInput
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Prompter) askInt(prompt, field string) (int, error) {
	s, err := p.ask(prompt)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", field, s)
	}
	return v, nil
}
