/*
Package config loads twinpane settings from YAML, HCL or JSON.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   YAML    | |   HCL   | |   JSON    |
	|  Parser   | | Parser  | |  Parser   |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Picks a parser by file extension
- Rejects unknown keys
- Fills defaults and rejects out of range values

🔍 Example (YAML):

	parallelism: 8
	max_threads: 64
	settle_delay: 50ms
	hide_hidden: true
	left_path: /home/me
	right_path: /mnt/backup
	log_level: debug

HCL files may reference the environment:

	left_path  = env.HOME
	trash_dir  = "${env.HOME}/.local/share/Trash"
*/
package config
