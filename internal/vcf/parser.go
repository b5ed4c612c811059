package vcf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// RequiredColumns are the header columns a variant table must provide.
var RequiredColumns = []string{"CHROM", "POS", "REF", "ALT", "INFO"}

// Parser reads records from a tab-separated variant table.
// Everything before the "#CHROM" header line is skipped; columns are
// located by name and columns other than RequiredColumns are ignored.
type Parser struct {
	src        io.Reader
	reader     *bufio.Reader
	file       *os.File
	lineNumber int
	columns    map[string]int
	width      int // minimum number of fields a data line needs
}

// NewParser creates a new parser for the given file ("-" reads stdin).
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open variant file: %w", err)
	}

	p, err := NewParserFromReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	p.file = file
	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{
		src:    r,
		reader: bufio.NewReader(r),
	}

	if err := p.parseHeader(); err != nil {
		return nil, err
	}

	return p, nil
}

// parseHeader skips to the "#CHROM" line and maps column names to indices.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read header: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if !strings.HasPrefix(line, "#CHROM") {
			if err == io.EOF {
				break
			}
			continue
		}

		p.columns = make(map[string]int)
		for i, name := range strings.Split(strings.TrimPrefix(line, "#"), "\t") {
			p.columns[strings.TrimSpace(name)] = i
		}
		for _, name := range RequiredColumns {
			idx, ok := p.columns[name]
			if !ok {
				return &ParseError{
					Line:    p.lineNumber,
					Message: fmt.Sprintf("header is missing required column %s", name),
				}
			}
			if idx+1 > p.width {
				p.width = idx + 1
			}
		}
		return nil
	}

	return &ParseError{
		Line:    p.lineNumber,
		Message: "no #CHROM header line found",
	}
}

// Next reads the next record.
// Returns nil, nil when there are no more records. A *ParseError describes
// a single bad line; the parser stays usable and Next may be called again.
func (p *Parser) Next() (*Record, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("read variant line: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}

		return p.parseLine(line)
	}
}

// parseLine parses a single data line into a Record.
func (p *Parser) parseLine(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < p.width {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", p.width, len(fields)),
		}
	}

	rawPos := fields[p.columns["POS"]]
	pos, err := strconv.ParseInt(rawPos, 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", rawPos),
		}
	}

	return &Record{
		Chrom: fields[p.columns["CHROM"]],
		Pos:   pos,
		Ref:   fields[p.columns["REF"]],
		Alt:   fields[p.columns["ALT"]],
		Info:  fields[p.columns["INFO"]],
		Line:  p.lineNumber,
	}, nil
}

// Reset rewinds the parser to the first record.
// It fails when the underlying reader cannot seek.
func (p *Parser) Reset() error {
	seeker, ok := p.src.(io.Seeker)
	if !ok {
		return errors.New("reset: input is not seekable")
	}
	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	p.reader.Reset(p.src)
	p.lineNumber = 0
	p.width = 0
	return p.parseHeader()
}

// Columns returns the header column names mapped to their indices.
func (p *Parser) Columns() map[string]int {
	return p.columns
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
