package emb

import (
	"encoding/json"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/tibue99/ezcord-sub000/localization"
)

// Placeholders returns the template variables for an interaction. Outside a guild the server values
// describe the bot user from state.
func Placeholders(interaction *discordgo.Interaction, state *discordgo.State) localization.Vars {
	vars := localization.Vars{}
	if interaction == nil {
		return vars
	}

	if user := interactionUser(interaction); user != nil {
		vars["user"] = user.String()
		vars["username"] = user.Username
		vars["user_mention"] = user.Mention()
		vars["user_id"] = user.ID
		vars["user_avatar"] = user.AvatarURL("")
	}

	var bot *discordgo.User
	if state != nil {
		bot = state.User
	}
	if bot != nil {
		vars["servername"] = bot.Username
		vars["server_icon"] = bot.AvatarURL("")
	}

	if guild := stateGuild(state, interaction.GuildID); guild != nil {
		vars["servername"] = guild.Name
		if guild.Icon != "" {
			vars["server_icon"] = guild.IconURL("")
		}
	}

	return vars
}

func interactionUser(interaction *discordgo.Interaction) *discordgo.User {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User
	}
	return interaction.User
}

func stateGuild(state *discordgo.State, guildID string) *discordgo.Guild {
	if state == nil || guildID == "" {
		return nil
	}
	guild, err := state.Guild(guildID)
	if err != nil {
		return nil
	}
	return guild
}

// replacePlaceholders replaces every {name} of vars in all strings of embed and returns a new embed.
func replacePlaceholders(embed *discordgo.MessageEmbed, vars localization.Vars) *discordgo.MessageEmbed {
	if embed == nil || len(vars) == 0 {
		return embed
	}

	raw, err := json.Marshal(embed)
	if err != nil {
		return embed
	}
	var content map[string]any
	if err = json.Unmarshal(raw, &content); err != nil {
		return embed
	}

	replaced, err := json.Marshal(replaceValue(content, vars))
	if err != nil {
		return embed
	}
	out := &discordgo.MessageEmbed{}
	if err = json.Unmarshal(replaced, out); err != nil {
		return embed
	}
	return out
}

func replaceValue(value any, vars localization.Vars) any {
	switch v := value.(type) {
	case string:
		return replaceString(v, vars)
	case map[string]any:
		for key, inner := range v {
			v[key] = replaceValue(inner, vars)
		}
		return v
	case []any:
		for i, inner := range v {
			v[i] = replaceValue(inner, vars)
		}
		return v
	default:
		return v
	}
}

func replaceString(s string, vars localization.Vars) string {
	if !strings.Contains(s, "{") {
		return s
	}
	return localization.SubstituteString(s, vars)
}
