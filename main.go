// repo-export fetches a GitHub repository's file tree via the REST API
// and concatenates eligible files into a single Markdown document.
//
// Example usage:
//
//	# Export a repository's default branch
//	repo-export owner/repo
//
//	# Export a specific branch or tag
//	repo-export https://github.com/owner/repo --ref v1.2.0
//
//	# Run without arguments for an interactive prompt
//	repo-export
package main

import "repo-export/cmd"

func main() {
	cmd.Execute()
}
