// Package cli handles cmd line input for DBG and testing extraction interactively
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/skillserve/internal/logger"
	"github.com/bastiangx/skillserve/pkg/dictionary"
	"github.com/bastiangx/skillserve/pkg/extract"
)

// InputHandler processes user input from stdin, running each line through
// the extractor and printing the matched skills with their categories.
type InputHandler struct {
	extractor    *extract.Extractor
	dict         *dictionary.Dictionary
	log          *log.Logger
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler
func NewInputHandler(extractor *extract.Extractor, dict *dictionary.Dictionary) *InputHandler {
	return &InputHandler{
		extractor: extractor,
		dict:      dict,
		log:       logger.New("cli"),
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	h.log.Print("SkillServe CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	h.log.Print("type some text and press Enter to see extracted skills (Ctrl+C to exit):")

	for {
		h.log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput runs extraction on a single line and prints the results
// with timing info.
func (h *InputHandler) handleInput(text string) {
	h.requestCount++

	start := time.Now()
	skills := h.extractor.Extract(text)
	elapsed := time.Since(start)

	h.log.Debugf("Took [ %v ] for %d chars", elapsed, len(text))

	if len(skills) == 0 {
		h.log.Warnf("No skills found")
		return
	}

	h.log.Printf("Found %d skills:", len(skills))
	for i, s := range skills {
		category, ok := h.dict.Category(s)
		if !ok {
			category = "unknown"
		}
		clSkill := fmt.Sprintf("\033[38;5;75m%s\033[0m", s)
		h.log.Printf("%2d. %-40s (%s)", i+1, clSkill, category)
	}
}
