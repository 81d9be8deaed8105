// Command debug-extract prints what the extractor sees in one TypeScript file.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/mvp-joe/beancraft/internal/extract"
	"github.com/mvp-joe/beancraft/internal/parser"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <file.ts>", os.Args[0])
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	file, err := parser.NewTypeScriptParser().ParseFile(context.Background(), os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	result := extract.New(logger).Extract(file)

	fmt.Println("=== DECLARATIONS ===")
	for _, d := range result.Declarations {
		kind := "class"
		if d.IsInterface {
			kind = "interface"
		}
		fmt.Printf("  %s %s extends=%q alias=%q\n", kind, d.Name, d.Extends, d.Alias)
		if d.Table != nil {
			fmt.Printf("    table mode=%s index=%s\n", d.Table.Mode, d.Table.Index)
		}
		for _, f := range d.Fields {
			fmt.Printf("    %s: %s (source %q, optional=%t)\n", f.Name, f.Type, f.SourceType, f.Optional)
		}
	}

	fmt.Println("\n=== ENUMS ===")
	for _, e := range result.Enums {
		fmt.Printf("  %s string=%t flags=%t\n", e.Name, e.IsString, e.IsFlags)
		for _, v := range e.Variants {
			fmt.Printf("    %s = %s\n", v.Name, v.Value)
		}
	}
}
