// Package renderer writes anonymised profiles as pandoc markdown and converts
// them to Word documents.
package renderer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
)

// RenderDocx converts markdown to a Word document using pandoc. A non-empty
// referenceDoc supplies the document styles.
func RenderDocx(ctx context.Context, markdownPath, outputPath, referenceDoc string) (err error) {
	// Validate pandoc exists
	err = checkPandocExists(ctx)
	if err != nil {
		return err
	}

	inputs := []string{markdownPath}
	if referenceDoc != "" {
		inputs = append(inputs, referenceDoc)
	}

	err = validateFiles(inputs...)
	if err != nil {
		return err
	}

	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	cmd := exec.CommandContext(ctx, "pandoc", pandocArgs(markdownPath, outputPath, referenceDoc)...)

	var output []byte
	output, err = cmd.CombinedOutput()
	if err != nil {
		err = errors.Wrapf(err, "pandoc failed: %s", string(output))
		return err
	}

	return err
}

func pandocArgs(markdownPath, outputPath, referenceDoc string) (args []string) {
	args = []string{
		"-f", "markdown",
		"-t", "docx",
		"-o", outputPath,
	}
	if referenceDoc != "" {
		args = append(args, "--reference-doc", referenceDoc)
	}
	args = append(args, markdownPath)
	return args
}

// checkPandocExists verifies pandoc is installed.
func checkPandocExists(ctx context.Context) (err error) {
	cmd := exec.CommandContext(ctx, "pandoc", "--version")
	err = cmd.Run()
	if err != nil {
		err = errors.New("pandoc not found in PATH (install pandoc to generate Word documents)")
		return err
	}
	return err
}

// validateFiles checks that required files exist.
func validateFiles(paths ...string) (err error) {
	for _, path := range paths {
		_, err = os.Stat(path)
		if os.IsNotExist(err) {
			err = errors.Errorf("file not found: %s", path)
			return err
		}
	}
	return err
}

// WriteMarkdown writes markdown content to a file.
func WriteMarkdown(content, outputPath string) (err error) {
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	err = os.WriteFile(outputPath, []byte(content), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write markdown file: %s", outputPath)
		return err
	}

	return err
}

// CleanupMarkdown removes intermediate markdown files once the document is
// rendered.
func CleanupMarkdown(paths ...string) (err error) {
	for _, path := range paths {
		err = os.Remove(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to remove markdown file: %s", path)
			return err
		}
	}
	return err
}
