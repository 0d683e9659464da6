package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MohammadMohid03/codenexus/internal/config"
	"github.com/MohammadMohid03/codenexus/pkg/logger"
)

type PistonExecuteRequest struct {
	Language       string `json:"language"`
	Version        string `json:"version"`
	Files          []File `json:"files"`
	Stdin          string `json:"stdin"`
	RunTimeout     int    `json:"run_timeout"`     // milliseconds
	CompileTimeout int    `json:"compile_timeout"` // milliseconds
}

type File struct {
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

type PistonExecuteResponse struct {
	Language string `json:"language"`
	Version  string `json:"version"`
	Run      struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
		Code   int    `json:"code"`
		Signal string `json:"signal"`
	} `json:"run"`
}

const defaultPistonURL = "https://emkc.org/api/v2/piston/execute"

// ExecuteCode is the seam handlers and the battle judge call through.
// Declared as a variable so tests can substitute a fake executor.
var ExecuteCode = executeWithPiston

var pistonClient = &http.Client{Timeout: 30 * time.Second}

// normalizePistonLanguage converts frontend language names to Piston-compatible names
func normalizePistonLanguage(lang string) string {
	langMap := map[string]string{
		"typescript": "typescript",
		"javascript": "javascript",
		"python":     "python",
		"go":         "go",
		"cpp":        "c++",
		"c++":        "c++",
		"java":       "java",
		"rust":       "rust",
		"c":          "c",
	}

	if pistonLang, ok := langMap[lang]; ok {
		return pistonLang
	}
	return lang
}

// getFileName returns the source file name Piston expects for a language
func getFileName(lang string) string {
	nameMap := map[string]string{
		"typescript": "index.ts",
		"javascript": "index.js",
		"python":     "main.py",
		"go":         "main.go",
		"c++":        "main.cpp",
		"cpp":        "main.cpp",
		"java":       "Main.java",
		"rust":       "main.rs",
		"c":          "main.c",
	}

	if name, ok := nameMap[lang]; ok {
		return name
	}
	return "code.txt"
}

// executeWithPiston runs code via the Piston API with the given stdin.
func executeWithPiston(language, code, stdin string) (*PistonExecuteResponse, error) {
	apiURL := defaultPistonURL
	if config.AppConfig != nil && config.AppConfig.PistonAPIURL != "" {
		apiURL = config.AppConfig.PistonAPIURL
	}

	reqBody := PistonExecuteRequest{
		Language: normalizePistonLanguage(language),
		Version:  "*",
		Files: []File{
			{Name: getFileName(language), Content: code},
		},
		Stdin:          stdin,
		RunTimeout:     5000,
		CompileTimeout: 10000,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := pistonClient.Post(apiURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("piston api failed with status: %d", resp.StatusCode)
	}

	var result PistonExecuteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("lang", language).
		Dur("latency", time.Since(start)).
		Msg("Executed code via Piston")

	return &result, nil
}
