package localization

import (
	"sort"

	"github.com/bwmarrin/discordgo"
)

// CommandLocalizations maps a locale to per command translations:
//
//	{"de": {"ping": {"name": "ping", "description": "Antwortet mit Pong",
//	    "options": {"user": {"name": "nutzer", "description": "...", "choices": {"a": "A"}}}}}}
type CommandLocalizations map[string]map[string]any

// LocalizeCommands applies LocalizeCommand to every command.
func LocalizeCommands(cmds []*discordgo.ApplicationCommand, localizations CommandLocalizations, defaultLocale string) {
	for _, cmd := range cmds {
		LocalizeCommand(cmd, localizations, defaultLocale)
	}
}

// LocalizeCommand fills the name and description localizations of cmd, its options, choices and
// subcommands. The entry for defaultLocale replaces the base name and description instead.
// The command is modified in place, ready for ApplicationCommandCreate or ApplicationCommandBulkOverwrite.
func LocalizeCommand(cmd *discordgo.ApplicationCommand, localizations CommandLocalizations, defaultLocale string) {
	if cmd == nil {
		return
	}

	// The default locale renames the command and options, so it is applied last while the
	// other locales can still find them by their original names.
	locales := make([]string, 0, len(localizations))
	for locale := range localizations {
		if locale != defaultLocale {
			locales = append(locales, locale)
		}
	}
	sort.Strings(locales)
	if _, ok := localizations[defaultLocale]; ok {
		locales = append(locales, defaultLocale)
	}

	for _, locale := range locales {
		entry, ok := asMap(localizations[locale][cmd.Name])
		if !ok {
			continue
		}

		name, hasName := entry["name"].(string)
		description, hasDescription := entry["description"].(string)

		if locale == defaultLocale {
			if hasName {
				cmd.Name = name
			}
			if hasDescription {
				cmd.Description = description
			}
		} else {
			if hasName {
				cmd.NameLocalizations = setLocalization(cmd.NameLocalizations, locale, name)
			}
			if hasDescription {
				cmd.DescriptionLocalizations = setLocalization(cmd.DescriptionLocalizations, locale, description)
			}
		}

		if options, hasOptions := asMap(entry["options"]); hasOptions {
			localizeOptions(cmd.Options, options, locale, locale == defaultLocale)
		}
	}
}

func localizeOptions(opts []*discordgo.ApplicationCommandOption, localizations map[string]any, locale string, isDefault bool) {
	for _, opt := range opts {
		entry, ok := asMap(localizations[opt.Name])
		if !ok {
			continue
		}

		name, hasName := entry["name"].(string)
		description, hasDescription := entry["description"].(string)

		if choices, hasChoices := asMap(entry["choices"]); hasChoices {
			for _, choice := range opt.Choices {
				translated, found := choices[choice.Name].(string)
				if !found {
					continue
				}
				if isDefault {
					choice.Name = translated
					continue
				}
				if choice.NameLocalizations == nil {
					choice.NameLocalizations = map[discordgo.Locale]string{}
				}
				choice.NameLocalizations[discordgo.Locale(locale)] = translated
			}
		}

		// Subcommands and groups nest their own options under "options".
		if nested, hasNested := asMap(entry["options"]); hasNested {
			localizeOptions(opt.Options, nested, locale, isDefault)
		}

		if isDefault {
			if hasName {
				opt.Name = name
			}
			if hasDescription {
				opt.Description = description
			}
			continue
		}

		if hasName {
			if opt.NameLocalizations == nil {
				opt.NameLocalizations = map[discordgo.Locale]string{}
			}
			opt.NameLocalizations[discordgo.Locale(locale)] = name
		}
		if hasDescription {
			if opt.DescriptionLocalizations == nil {
				opt.DescriptionLocalizations = map[discordgo.Locale]string{}
			}
			opt.DescriptionLocalizations[discordgo.Locale(locale)] = description
		}
	}
}

func setLocalization(current *map[discordgo.Locale]string, locale, value string) *map[discordgo.Locale]string {
	if current == nil {
		m := map[discordgo.Locale]string{}
		current = &m
	}
	(*current)[discordgo.Locale(locale)] = value
	return current
}
