// Package mapping provides the YAML rule file schema, parsing and structural
// validation for column mapping rules.
//
// A rule file pins two things: the catalog of canonical target fields with
// the column headers known to carry them, and the override rules that take
// precedence over automatic matching.
//
// # Schema Overview
//
//	version: "1"
//	defaults:
//	  created_by: compliance-team
//	fields:
//	  - target: asset_id
//	    columns: [Asset ID, Unique Asset Identifier]
//	    source_type: inventory
//	    required: true
//	  - target: hostname
//	    columns: Hostname            # single alias
//	overrides:
//	  - id: poam-weakness
//	    name: POA&M weakness name
//	    pattern: "^weakness( name)?$"
//	    type: regex
//	    scope: {document_type: poam}
//	    target: weakness_name
//	    priority: 50
//	    conditions:
//	      - type: header_content
//	        operator: contains
//	        value: POA&M ID
//	        required: true
//	    position: {min: 0, max: 5}
//	  - name: fuzzy serial
//	    pattern: Serial Number
//	    type: fuzzy
//	    threshold: 0.8
//	    target: serial_number
//
// # Scopes
//
// A scope is either the scalar "global" or a single-key mapping naming the
// scope kind: document_type, file_pattern, user, organization or project.
//
// # Condition values
//
// Unquoted YAML numbers become numeric values, everything else is a string.
// Quote a number to compare it as text.
//
// The engine never writes rule files back. Marshaling exists only for the
// planner's suggestion export, which reviewers edit and load like any other
// rule file.
package mapping
