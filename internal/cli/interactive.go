package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chmouel/lazycommit/internal/log"
	"github.com/chmouel/lazycommit/internal/theme"
)

// step is one state of the review loop.
type step int

const (
	stepPropose   step = iota // draft displayed, awaiting a choice
	stepCommit                // a message was chosen, commit pending
	stepCancelled             // user backed out, nothing committed
)

// event is the resolved outcome of one prompt round.
type event int

const (
	eventAccept event = iota
	eventEdit
	eventEmptyEdit
	eventRegenerate
	eventCancel
	eventInvalid
)

// menuChoice is one parsed keypress from the review menu.
type menuChoice int

const (
	menuAccept menuChoice = iota
	menuEdit
	menuRegenerate
	menuCancel
	menuInvalid
)

// parseChoice maps one line of menu input to a choice. Only the four
// single-letter keys are recognized; everything else is invalid.
func parseChoice(input string) menuChoice {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "a":
		return menuAccept
	case "e":
		return menuEdit
	case "r":
		return menuRegenerate
	case "c":
		return menuCancel
	default:
		return menuInvalid
	}
}

// transition is the pure state function of the review loop: it maps the
// current step and one resolved event to the next step. All side
// effects (prompting, generation, the commit itself) happen in
// reviewLoop based on the step that comes back. Accepting and a
// non-empty edit both commit; an empty edit, a regeneration and an
// invalid key keep proposing.
func transition(current step, ev event) step {
	if current != stepPropose {
		return current
	}
	switch ev {
	case eventAccept, eventEdit:
		return stepCommit
	case eventCancel:
		return stepCancelled
	case eventEmptyEdit, eventRegenerate, eventInvalid:
		return stepPropose
	}
	return current
}

// reviewLoop presents the draft and drives the accept/edit/regenerate/
// cancel menu until a terminal step is reached. It returns the message
// to commit, or cancelled=true when the user backs out (closing stdin
// counts as backing out). Errors come only from the regenerate callback.
func reviewLoop(draft string, regenerate func() (string, error), stdin io.Reader, stderr io.Writer, thm *theme.Theme, logger *log.DebugLogger) (string, bool, error) {
	scanner := bufio.NewScanner(stdin)
	message := draft
	current := stepPropose

	for current == stepPropose {
		renderDraft(stderr, thm, message)
		fmt.Fprintf(stderr, "[a]ccept, [e]dit, [r]egenerate, [c]ancel: ")

		if !scanner.Scan() {
			logger.Printf("review: input closed, cancelling")
			return "", true, nil
		}

		var ev event
		switch parseChoice(scanner.Text()) {
		case menuAccept:
			ev = eventAccept
		case menuCancel:
			logger.Printf("review: cancelled by user")
			ev = eventCancel
		case menuRegenerate:
			fresh, err := regenerate()
			if err != nil {
				return "", false, err
			}
			logger.Printf("review: regenerated draft (%d chars)", len(fresh))
			message = fresh
			ev = eventRegenerate
		case menuEdit:
			fmt.Fprintf(stderr, "Enter new commit message: ")
			if !scanner.Scan() {
				logger.Printf("review: input closed during edit, cancelling")
				return "", true, nil
			}
			replacement := strings.TrimSpace(scanner.Text())
			if replacement == "" {
				fmt.Fprintln(stderr, "Empty message, keeping current draft.")
				ev = eventEmptyEdit
			} else {
				message = replacement
				ev = eventEdit
			}
		default:
			fmt.Fprintln(stderr, "Invalid choice.")
			ev = eventInvalid
		}

		current = transition(current, ev)
	}

	if current == stepCancelled {
		return "", true, nil
	}
	return message, false, nil
}
