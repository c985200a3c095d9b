// Package script runs zygomys Lisp scene scripts. A script only reads and
// writes scalar scene parameters:
//
//	(setp "power" 3)
//	(rot "XW" 30)
//	(setp "slice.3" (* 0.1 (getp "power")))
//
// Every interpreter is a fresh sandbox with no filesystem access.
package script

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/lukaszgryglicki/mdimension/internal/config"
)

// Timeout bounds one script run when the caller's context has no deadline.
const Timeout = 5 * time.Second

// Error is a script failure with the source line when zygomys reports one.
type Error struct {
	Line    int
	Message string
}

func (e Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("script line %d: %s", e.Line, e.Message)
	}
	return "script: " + e.Message
}

type assignment struct {
	name  string
	value float64
}

type result struct {
	sets []assignment
	err  error
}

// Apply runs source against cfg. Assignments are validated on a private
// copy and committed to cfg only when the whole script succeeds.
func Apply(ctx context.Context, source string, cfg *config.Config) error {
	if strings.TrimSpace(source) == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, Timeout)
		defer cancel()
	}

	work := cfg.Clone()
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("script panic: %v", r)}
			}
		}()
		sets, err := run(source, work)
		ch <- result{sets: sets, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return res.err
		}
		for _, s := range res.sets {
			if err := cfg.Set(s.name, s.value); err != nil {
				return err
			}
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("script: %w", ctx.Err())
	}
}

func run(source string, work *config.Config) ([]assignment, error) {
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	var sets []assignment
	set := func(name string, v float64) error {
		if err := work.Set(name, v); err != nil {
			return err
		}
		sets = append(sets, assignment{name: name, value: v})
		return nil
	}

	env.AddFunction("setp", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("%s: want (setp name value)", name)
		}
		key, err := toName(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		v, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s %s: %w", name, key, err)
		}
		if err := set(key, v); err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpFloat{Val: v}, nil
	})
	env.AddFunction("getp", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s: want (getp name)", name)
		}
		key, err := toName(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		v, err := work.Get(key)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpFloat{Val: v}, nil
	})
	env.AddFunction("rot", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("%s: want (rot plane degrees)", name)
		}
		plane, err := toName(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		deg, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s %s: %w", name, plane, err)
		}
		if err := set("rot."+plane, deg); err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpFloat{Val: deg}, nil
	})

	if err := env.LoadString(source); err != nil {
		return nil, parseError(err)
	}
	if _, err := env.Run(); err != nil {
		return nil, parseError(err)
	}
	return sets, nil
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", s.SexpString(nil))
}

// toName accepts a string or a quoted symbol.
func toName(s zygo.Sexp) (string, error) {
	switch v := s.(type) {
	case *zygo.SexpStr:
		return v.S, nil
	case *zygo.SexpSymbol:
		return v.Name(), nil
	}
	return "", fmt.Errorf("expected parameter name, got %s", s.SexpString(nil))
}

var lineRe = regexp.MustCompile(`(?i)on line (\d+):\s*(.*)`)

func parseError(err error) error {
	msg := strings.TrimSpace(err.Error())
	if m := lineRe.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return Error{Line: line, Message: strings.TrimSpace(m[2])}
	}
	return Error{Message: msg}
}
