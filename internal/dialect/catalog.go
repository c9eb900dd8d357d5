package dialect

// System catalog queries. Names are bound in their catalog form and returned
// trimmed of CHAR padding; callers normalize them.

func (d *Dialect) HasTableQuery() string {
	return `
SELECT 1 AS has_table FROM rdb$database
WHERE EXISTS (SELECT rdb$relation_name
              FROM rdb$relations
              WHERE rdb$relation_name=?)`
}

func (d *Dialect) HasSequenceQuery() string {
	return `
SELECT 1 AS has_sequence FROM rdb$database
WHERE EXISTS (SELECT rdb$generator_name
              FROM rdb$generators
              WHERE rdb$generator_name=?)`
}

// TableNamesQuery lists ordinary tables: no view source, not system, type 0.
func (d *Dialect) TableNamesQuery() string {
	return `
SELECT TRIM(rdb$relation_name) AS relation_name
FROM rdb$relations
WHERE rdb$view_blr IS NULL
  AND (rdb$system_flag IS NULL OR rdb$system_flag = 0)
  AND rdb$relation_type = 0`
}

// TempTableNamesQuery lists global temporary tables, which are relation
// types 4 (ON COMMIT PRESERVE ROWS) and 5 (ON COMMIT DELETE ROWS).
func (d *Dialect) TempTableNamesQuery() string {
	return `
SELECT TRIM(rdb$relation_name) AS relation_name
FROM rdb$relations
WHERE rdb$view_blr IS NULL
  AND (rdb$system_flag IS NULL OR rdb$system_flag = 0)
  AND rdb$relation_type IN (4, 5)`
}

func (d *Dialect) ViewNamesQuery() string {
	return `
SELECT TRIM(rdb$relation_name) AS relation_name
FROM rdb$relations
WHERE rdb$view_blr IS NOT NULL
  AND (rdb$system_flag IS NULL OR rdb$system_flag = 0)`
}

func (d *Dialect) SequenceNamesQuery() string {
	return `
SELECT TRIM(rdb$generator_name) AS generator_name
FROM rdb$generators
WHERE (rdb$system_flag IS NULL OR rdb$system_flag = 0)`
}

func (d *Dialect) ViewDefinitionQuery() string {
	return `
SELECT rdb$view_source AS view_source
FROM rdb$relations
WHERE rdb$relation_name=?`
}

// PrimaryKeyQuery takes the constraint type and the relation name.
func (d *Dialect) PrimaryKeyQuery() string {
	return `
SELECT TRIM(se.rdb$field_name) AS fname
FROM rdb$relation_constraints rc
     JOIN rdb$index_segments se ON rc.rdb$index_name=se.rdb$index_name
WHERE rc.rdb$constraint_type=? AND rc.rdb$relation_name=?
ORDER BY se.rdb$field_position`
}

// ColumnsQuery returns one row per field in field position order. The length
// is divided by the character set width so it counts characters.
func (d *Dialect) ColumnsQuery() string {
	return `
SELECT TRIM(r.rdb$field_name) AS fname,
       r.rdb$null_flag AS null_flag,
       t.rdb$type_name AS ftype,
       f.rdb$field_sub_type AS stype,
       f.rdb$field_length/COALESCE(cs.rdb$bytes_per_character, 1) AS flen,
       f.rdb$field_precision AS fprec,
       f.rdb$field_scale AS fscale,
       COALESCE(r.rdb$default_source, f.rdb$default_source) AS fdefault,
       f.rdb$computed_source AS computed_source
FROM rdb$relation_fields r
     JOIN rdb$fields f ON r.rdb$field_source=f.rdb$field_name
     JOIN rdb$types t ON t.rdb$type=f.rdb$field_type
                     AND t.rdb$field_name='RDB$FIELD_TYPE'
     LEFT JOIN rdb$character_sets cs ON f.rdb$character_set_id=cs.rdb$character_set_id
WHERE f.rdb$system_flag=0 AND r.rdb$relation_name=?
ORDER BY r.rdb$field_position`
}

// ColumnSequenceQuery finds the generator feeding a field through a before
// insert trigger (type 1) that depends on the table field (type 0) and on
// exactly one generator (type 14) and nothing else.
func (d *Dialect) ColumnSequenceQuery() string {
	return `
SELECT TRIM(trigdep.rdb$depended_on_name) AS fgenerator
FROM rdb$dependencies tabdep
     JOIN rdb$dependencies trigdep
          ON tabdep.rdb$dependent_name=trigdep.rdb$dependent_name
             AND trigdep.rdb$depended_on_type=14
             AND trigdep.rdb$dependent_type=2
     JOIN rdb$triggers trig ON trig.rdb$trigger_name=tabdep.rdb$dependent_name
WHERE tabdep.rdb$depended_on_name=?
  AND tabdep.rdb$depended_on_type=0
  AND trig.rdb$trigger_type=1
  AND tabdep.rdb$field_name=?
  AND (SELECT COUNT(*)
       FROM rdb$dependencies trigdep2
       WHERE trigdep2.rdb$dependent_name = trigdep.rdb$dependent_name) = 2`
}

// ForeignKeysQuery takes the constraint type and the relation name. Segments
// of the constrained and referenced indexes are aligned by field position.
func (d *Dialect) ForeignKeysQuery() string {
	return `
SELECT TRIM(rc.rdb$constraint_name) AS cname,
       TRIM(cse.rdb$field_name) AS fname,
       TRIM(ix2.rdb$relation_name) AS targetrname,
       TRIM(se.rdb$field_name) AS targetfname
FROM rdb$relation_constraints rc
     JOIN rdb$indices ix1 ON ix1.rdb$index_name=rc.rdb$index_name
     JOIN rdb$indices ix2 ON ix2.rdb$index_name=ix1.rdb$foreign_key
     JOIN rdb$index_segments cse ON cse.rdb$index_name=ix1.rdb$index_name
     JOIN rdb$index_segments se ON se.rdb$index_name=ix2.rdb$index_name
                               AND se.rdb$field_position=cse.rdb$field_position
WHERE rc.rdb$constraint_type=? AND rc.rdb$relation_name=?
ORDER BY se.rdb$index_name, se.rdb$field_position`
}

// IndexesQuery skips indexes backing foreign keys and any other constraint.
func (d *Dialect) IndexesQuery() string {
	return `
SELECT TRIM(ix.rdb$index_name) AS index_name,
       ix.rdb$unique_flag AS unique_flag,
       TRIM(ic.rdb$field_name) AS field_name
FROM rdb$indices ix
     JOIN rdb$index_segments ic ON ix.rdb$index_name=ic.rdb$index_name
     LEFT OUTER JOIN rdb$relation_constraints
          ON rdb$relation_constraints.rdb$index_name=ic.rdb$index_name
WHERE ix.rdb$relation_name=? AND ix.rdb$foreign_key IS NULL
  AND rdb$relation_constraints.rdb$constraint_type IS NULL
ORDER BY index_name, ic.rdb$field_position`
}

func (d *Dialect) TableCommentQuery() string {
	return `
SELECT rdb$description AS comment
FROM rdb$relations
WHERE rdb$relation_name=?`
}
