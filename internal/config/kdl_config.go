package config

import (
	"fmt"
	"os"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL attempts to load configuration from an .armoss.kdl file. A missing
// file is not an error; defaults apply.
func LoadKDL(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", path, err)
	}

	return parseKDL(string(content))
}

// parseKDL maps a KDL document onto a Config, starting from defaults.
//
// Expected shape:
//
//	analysis {
//	    tokenizer "relative"
//	    noise 15
//	    guarantee 30
//	    max_token_offset 16
//	}
//	performance {
//	    workers 8
//	}
//	include "**/*.s" "**/*.asm"
//	exclude "**/generated/**"
func parseKDL(content string) (*Config, error) {
	cfg := Default()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "analysis":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "tokenizer":
					if s, ok := firstStringArg(cn); ok {
						cfg.Analysis.Tokenizer = s
					}
				case "noise":
					if v, ok := firstIntArg(cn); ok {
						cfg.Analysis.NoiseThreshold = v
					}
				case "guarantee":
					if v, ok := firstIntArg(cn); ok {
						cfg.Analysis.GuaranteeThreshold = v
					}
				case "max_token_offset":
					if v, ok := firstIntArg(cn); ok {
						cfg.Analysis.MaxTokenOffset = v
					}
				}
			}
		case "performance":
			for _, cn := range n.Children {
				if nodeName(cn) == "workers" {
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.Workers = v
					}
				}
			}
		case "include":
			if patterns := collectStringArgs(n); len(patterns) > 0 {
				cfg.Include = patterns
			}
		case "exclude":
			cfg.Exclude = append(cfg.Exclude, collectStringArgs(n)...)
		}
	}

	return cfg, nil
}

// Helper functions leveraging the kdl-go document model
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// Block form: strings appear as child node names
	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}
