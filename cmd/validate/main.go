package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/MedbouZZ004/Smart-Assurance-ValidatorX/pkg/format"
	"github.com/MedbouZZ004/Smart-Assurance-ValidatorX/pkg/validator"
)

// One-shot engine run over a request JSON file, for batch scripting and
// debugging rule changes without the HTTP server.
func main() {
	inPath := flag.String("in", "-", "request JSON file (raw_text, tech_report, forced_doc_type, proposed_result); '-' for stdin")
	docType := flag.String("type", "", "override forced_doc_type from the request file")
	flag.Parse()

	var data []byte
	var err error
	if *inPath == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*inPath)
	}
	if err != nil {
		log.Fatalf("read request: %v", err)
	}

	var in validator.Input
	if err := json.Unmarshal(data, &in); err != nil {
		log.Fatalf("parse request: %v", err)
	}
	if *docType != "" {
		in.DocType = *docType
	}

	engine, err := validator.New(validator.DefaultConfig(), format.Checks())
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	res := engine.Validate(in)
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}
