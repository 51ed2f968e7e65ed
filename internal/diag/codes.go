package diag

import (
	"fmt"
)

type Code uint16

const (
	// Unknown
	UnknownCode Code = 0
	// Lexical
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1004

	// Grammar
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynExpectExpression  Code = 2003
	SynTrailingComma     Code = 2004
	SynTrailingTokens    Code = 2005
	SynSugarOutsideList  Code = 2006
	SynExpectAtomName    Code = 2007
	SynExpectComma       Code = 2008

	// IO and encoding
	IOLoadFileError   Code = 4001
	IOInvalidEncoding Code = 4002

	// Batch framing
	DumpMissingHeader Code = 4101

	// Quoting collaborator
	QuoterInfo     Code = 5000
	QuoterFailed   Code = 5001
	QuoterNotFound Code = 5002

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		LexInfo:               "Lexical information",
		LexUnknownChar:        "Unknown character",
		LexUnterminatedString: "Unterminated string literal",
		LexBadNumber:          "Malformed number literal",
		SynInfo:               "Syntax information",
		SynUnexpectedToken:    "Unexpected token",
		SynUnclosedDelimiter:  "Unclosed delimiter",
		SynExpectExpression:   "Expected expression",
		SynTrailingComma:      "Trailing comma is not allowed",
		SynTrailingTokens:     "Unexpected tokens after expression",
		SynSugarOutsideList:   "Keyword shorthand outside of list",
		SynExpectAtomName:     "Expected atom name after ':'",
		SynExpectComma:        "Expected ',' between elements",
		IOLoadFileError:       "I/O load file error",
		IOInvalidEncoding:     "Input is not valid UTF-8",
		DumpMissingHeader:     "Batch segment has no header separator",
		QuoterInfo:            "Quoter information",
		QuoterFailed:          "Quoter process failed",
		QuoterNotFound:        "Quoter executable not found",
		ObsInfo:               "Observability information",
		ObsTimings:            "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("QTR%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
