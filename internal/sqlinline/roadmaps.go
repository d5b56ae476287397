package sqlinline

// Roadmap aggregate statements. The entire phase tree rides in the phases
// jsonb column, so the insert is a single statement and can never leave a
// half-written aggregate behind.

const QInsertRoadmap = `--sql 6f1f2a9e-55f8-4b43-b0a1-43c2a4f1d9b7
insert into roadmaps (id, user_id, title, description, start_date, number_of_days, phases)
values ($1::uuid, $2::uuid, $3::text, $4::text, $5::date, $6::int, $7::jsonb)
returning id, created_at;
`

const QSelectRoadmapByID = `--sql 92c4b8d1-7e06-4a5a-9c33-8d5f60b2e4aa
select id, user_id, title, description, start_date, number_of_days, phases, created_at
from roadmaps
where id = $1::uuid
limit 1;
`

const QListRoadmapsByUser = `--sql 0ab7c3e5-2f94-4d18-8b61-d7e9a0c45f12
select id, user_id, title, description, start_date, number_of_days, phases, created_at
from roadmaps
where user_id = $1::uuid
order by created_at desc;
`

const QDeleteRoadmap = `--sql b3d09f77-4c21-4e86-a5d2-1fa8c6e07b94
delete from roadmaps
where id = $1::uuid;
`

const QListAllRoadmaps = `--sql effdc53c-668b-4016-a932-e498d214194f
select r.id, r.user_id, u.email, r.title, r.start_date, r.number_of_days, r.created_at
from roadmaps r
join users u on u.id = r.user_id
order by r.created_at desc
limit $1::int;
`
