package project

import (
	"os"
	"path/filepath"
)

// isVenv tells a real Python virtual environment apart from an unrelated
// directory that happens to be called "env".
func isVenv(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, "pyvenv.cfg")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(dir, "bin", "activate")); err == nil {
		return true
	}
	return false
}

// Rust matches target directories next to a Cargo.toml.
var Rust = Rule{
	Kind:    "Rust",
	Icon:    "🦀",
	Dirs:    []string{"target"},
	Markers: []string{"Cargo.toml"},
}

// Node matches node_modules directories next to a package.json.
var Node = Rule{
	Kind:    "Node.js",
	Icon:    "📦",
	Dirs:    []string{"node_modules"},
	Markers: []string{"package.json"},
}

// Python matches virtual environment directories.
var Python = Rule{
	Kind:   "Python",
	Icon:   "🐍",
	Dirs:   []string{"venv", ".venv", "env", ".env"},
	Verify: isVenv,
}

// Flutter matches build output next to a pubspec.yaml.
var Flutter = Rule{
	Kind:    "Flutter",
	Icon:    "🎯",
	Dirs:    []string{"build", ".dart_tool"},
	Markers: []string{"pubspec.yaml"},
}

// Haskell matches stack and cabal build output.
var Haskell = Rule{
	Kind:    "Haskell",
	Icon:    "λ",
	Dirs:    []string{".stack-work", "dist", "dist-newstyle"},
	Markers: []string{"*.cabal", "stack.yaml"},
}
