// txctl envia rascunhos de transação descritos em YAML e exporta o histórico
// enriquecido, usando o mesmo núcleo do servidor posconsole.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
