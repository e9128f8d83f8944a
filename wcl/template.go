package wcl

import "text/template"

// Report codes are opaque alphanumeric tokens and fight ids are ints, so
// plain template substitution is safe here.
var (
	tmplFights = template.Must(template.New("fights").Parse(`
query {
	reportData {
		report(code: "{{.Code}}") {
			fights(killType: Encounters) {
				id
				name
				kill
				startTime
				endTime
				encounterID
				difficulty
			}
		}
	}
}`))

	tmplFightDetails = template.Must(template.New("fightDetails").Parse(`
query {
	reportData {
		report(code: "{{.Code}}") {
			table(fightIDs: [{{.FightID}}], dataType: {{.TableDataType}})
			rankings(fightIDs: [{{.FightID}}], playerMetric: {{.Metric}}, compare: Rankings)
			playerDetails(fightIDs: [{{.FightID}}], includeCombatantInfo: true)
			fights(fightIDs: [{{.FightID}}]) {
				id
				startTime
				endTime
			}
			masterData {
				actors(type: "Player") {
					id
					name
					type
					subType
				}
			}
		}
	}
}`))

	tmplDeaths = template.Must(template.New("deaths").Parse(`
query {
	reportData {
		report(code: "{{.Code}}") {
			events(fightIDs: [{{.FightID}}], dataType: Deaths, startTime: 0, endTime: 99999999999) {
				data
			}
			fights(fightIDs: [{{.FightID}}]) {
				startTime
				endTime
			}
			masterData {
				actors(type: "Player") {
					id
					name
					type
				}
				abilities {
					gameID
					name
				}
			}
		}
	}
}`))

	// Fallback when the Deaths data type errors out or yields nothing.
	tmplDeathsByFilter = template.Must(template.New("deathsByFilter").Parse(`
query {
	reportData {
		report(code: "{{.Code}}") {
			events(fightIDs: [{{.FightID}}], startTime: 0, endTime: 99999999999, filterExpression: "type = 'death'") {
				data
			}
			fights(fightIDs: [{{.FightID}}]) {
				startTime
				endTime
			}
			masterData {
				actors(type: "Player") {
					id
					name
					type
				}
				abilities {
					gameID
					name
				}
			}
		}
	}
}`))

	tmplLatestReport = template.Must(template.New("latestReport").Parse(`
query {
	reportData {
		reports(guildID: {{.GuildID}}, limit: 1) {
			data {
				code
				title
				startTime
				owner {
					name
				}
			}
		}
	}
}`))
)
