package resources

// JSON Schema documents for the MAAS read entities. Compiled once at
// registration time; they are configuration data, not pipeline logic.

const idParamsSchema = `{
	"type": "object",
	"required": ["system_id"],
	"properties": {
		"system_id": {"type": "string", "minLength": 1}
	}
}`

const nameParamsSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string", "minLength": 1}
	}
}`

const numericIDParamsSchema = `{
	"type": "object",
	"required": ["id"],
	"properties": {
		"id": {"type": "string", "pattern": "^[0-9]+$"}
	}
}`

// collectionParamsSchema accepts any query-string filter values.
const collectionParamsSchema = `{
	"type": "object",
	"additionalProperties": {"type": "string"}
}`

const machineDataSchema = `{
	"type": "object",
	"required": ["system_id", "hostname", "status_name"],
	"properties": {
		"system_id": {"type": "string"},
		"hostname": {"type": "string"},
		"status_name": {"type": "string"},
		"architecture": {"type": "string"},
		"cpu_count": {"type": "number"},
		"memory": {"type": "number"},
		"zone": {"type": "object"},
		"tag_names": {"type": "array", "items": {"type": "string"}}
	}
}`

const tagDataSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"},
		"definition": {"type": "string"},
		"comment": {"type": "string"},
		"kernel_opts": {"type": ["string", "null"]}
	}
}`

const subnetDataSchema = `{
	"type": "object",
	"required": ["id", "cidr"],
	"properties": {
		"id": {"type": "number"},
		"cidr": {"type": "string"},
		"name": {"type": "string"},
		"vlan": {"type": "object"},
		"gateway_ip": {"type": ["string", "null"]},
		"dns_servers": {"type": "array"}
	}
}`

const zoneDataSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {
		"id": {"type": "number"},
		"name": {"type": "string"},
		"description": {"type": "string"}
	}
}`

const deviceDataSchema = `{
	"type": "object",
	"required": ["system_id", "hostname"],
	"properties": {
		"system_id": {"type": "string"},
		"hostname": {"type": "string"},
		"domain": {"type": "object"},
		"ip_addresses": {"type": "array"}
	}
}`

const domainDataSchema = `{
	"type": "object",
	"required": ["id", "name"],
	"properties": {
		"id": {"type": "number"},
		"name": {"type": "string"},
		"authoritative": {"type": "boolean"},
		"resource_record_count": {"type": "number"}
	}
}`
