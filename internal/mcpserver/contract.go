package mcpserver

// ScheduleContract is the canonical description of the flight-schedule CSV
// schema and the query document format, served to MCP clients so they can
// produce valid inputs.
const ScheduleContract = `# Tarmac Flight Schedule Contract

## CSV schema

The first line is a header naming the columns. Required columns:

- flight_id           2-8 alphanumeric characters
- origin              exactly 3 uppercase letters (e.g. JFK)
- destination         exactly 3 uppercase letters
- departure_datetime  exact form "YYYY-MM-DD HH:MM" (24-hour, zero-padded, no seconds, no timezone)
- arrival_datetime    same form; must be strictly after departure_datetime
- price               number strictly greater than zero

Any additional non-empty column is kept on the record under its original
header name. Rows failing any rule are rejected with a single reason.

## Query objects

A query is a JSON object:

    {
      "name": "optional display name",
      "filter": {"field": "value"},
      "departure_between": ["YYYY-MM-DD HH:MM", "YYYY-MM-DD HH:MM"],
      "arrival_before": "YYYY-MM-DD HH:MM",
      "arrival_after": "YYYY-MM-DD HH:MM"
    }

Equality filters compare case-insensitively. Range clauses are inclusive at
both bounds and key on departure_datetime / arrival_datetime. All present
clauses must hold.
`
