package ui

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"repo-export/model"
	"repo-export/parse"
)

type Selection string

const (
	SelectURL       Selection = "Enter full GitHub URL"
	SelectOwnerRepo Selection = "Enter in format 'owner/repo'"
	SelectSeparate  Selection = "Enter owner and repo separately"
)

// PromptRepository interactively collects a repository reference when
// none was given on the command line.
func PromptRepository() (model.RepoRef, error) {
	selectPrompt := promptui.Select{
		Label: "How do you want to specify the repository?",
		Items: []Selection{SelectURL, SelectOwnerRepo, SelectSeparate},
	}
	_, selection, err := selectPrompt.Run()
	if err != nil {
		return model.RepoRef{}, err
	}

	switch Selection(selection) {
	case SelectURL:
		input, err := promptText("GitHub URL", false)
		if err != nil {
			return model.RepoRef{}, err
		}
		return parse.RepoInput(input)
	case SelectOwnerRepo:
		input, err := promptText("Repository (owner/repo)", false)
		if err != nil {
			return model.RepoRef{}, err
		}
		return parse.OwnerRepo(input)
	default:
		owner, err := promptText("GitHub username/organization", false)
		if err != nil {
			return model.RepoRef{}, err
		}
		name, err := promptText("Repository name", false)
		if err != nil {
			return model.RepoRef{}, err
		}
		return model.RepoRef{Owner: owner, Name: name}, nil
	}
}

func promptText(label string, allowEmpty bool) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if !allowEmpty && strings.TrimSpace(input) == "" {
				return fmt.Errorf("%s cannot be empty", label)
			}
			return nil
		},
	}
	result, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}
